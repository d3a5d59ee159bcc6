// Package media uploads product images to an object store and hands back a
// publicly reachable URL.
package media

import "context"

type Uploader interface {
	// Upload stores data under the given folder and returns its public
	// URL.
	Upload(ctx context.Context, data []byte, folder string) (string, error)
}
