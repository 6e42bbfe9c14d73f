// Package env overlays BUCKETDROP_* environment variables on top of another
// driven.ConfigStore. Environment values win on read; writes go to the
// wrapped store.
package env
