// Package fetch defines the contract with the external media acquisition
// collaborator. Actually talking to a remote video site is out of scope;
// the pipeline only needs a file on local disk plus source metadata.
package fetch

import (
	"context"
)

type Metadata struct {
	Title     string
	Author    string
	ViewCount int64
}

// Result describes the fetched artifact written under destDir. The file
// may be in any container; the pipeline converts it to wav afterwards.
type Result struct {
	FilePath string
	Meta     Metadata
}

type Fetcher interface {
	Fetch(ctx context.Context, url, destDir string) (*Result, error)
}
