package memory

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/custodia-labs/bucketdrop/internal/core/domain"
	"github.com/custodia-labs/bucketdrop/internal/core/ports/driven"
)

// Ensure ObjectStore and ObjectStoreFactory implement the interfaces.
var (
	_ driven.ObjectStore        = (*ObjectStore)(nil)
	_ driven.ObjectStoreFactory = (*ObjectStoreFactory)(nil)
)

// Object is a stored object with its content.
type Object struct {
	domain.StoredObject
	Data []byte
}

// ObjectStore is an in-memory bucket.
type ObjectStore struct {
	bucket string

	mu      sync.RWMutex
	objects map[string]Object
}

// NewObjectStore creates an empty in-memory bucket.
func NewObjectStore(bucket string) *ObjectStore {
	return &ObjectStore{
		bucket:  bucket,
		objects: make(map[string]Object),
	}
}

// Put reads r fully and stores it under name, replacing any previous object.
func (s *ObjectStore) Put(ctx context.Context, name string, r io.Reader, contentType string) (*domain.StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadCancelled, err)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: object name is required", domain.ErrInvalidInput)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	obj := Object{
		StoredObject: domain.StoredObject{
			Bucket:      s.bucket,
			Name:        name,
			Size:        int64(len(data)),
			ContentType: contentType,
			MediaLink:   "memory://" + s.bucket + "/" + name,
		},
		Data: data,
	}

	s.mu.Lock()
	s.objects[name] = obj
	s.mu.Unlock()

	stored := obj.StoredObject
	return &stored, nil
}

// Bucket returns the bucket name.
func (s *ObjectStore) Bucket() string {
	return s.bucket
}

// Object returns a stored object by name.
func (s *ObjectStore) Object(name string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[name]
	return obj, ok
}

// Names returns the stored object names.
func (s *ObjectStore) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.objects))
	for name := range s.objects {
		names = append(names, name)
	}
	return names
}

// ObjectStoreFactory hands out one in-memory bucket per bucket name.
type ObjectStoreFactory struct {
	mu      sync.Mutex
	buckets map[string]*ObjectStore
}

// NewObjectStoreFactory creates a factory with no buckets.
func NewObjectStoreFactory() *ObjectStoreFactory {
	return &ObjectStoreFactory{
		buckets: make(map[string]*ObjectStore),
	}
}

// Open returns the bucket named in settings, creating it on first use.
func (f *ObjectStoreFactory) Open(_ context.Context, settings domain.StorageSettings) (driven.ObjectStore, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: bucket not configured", domain.ErrStorageUnavailable)
	}
	return f.Bucket(strings.TrimSpace(settings.Bucket)), nil
}

// Bucket returns the in-memory bucket with the given name.
func (f *ObjectStoreFactory) Bucket(name string) *ObjectStore {
	f.mu.Lock()
	defer f.mu.Unlock()
	store, ok := f.buckets[name]
	if !ok {
		store = NewObjectStore(name)
		f.buckets[name] = store
	}
	return store
}
