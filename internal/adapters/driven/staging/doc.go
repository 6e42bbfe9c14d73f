// Package staging implements the workspace port on the local filesystem.
//
// Layout under the staging root:
//
//	Images/     compressed images, named <unix-millis>.jpg
//	Documents/  copies of picked documents under their original names
package staging
