package application

import "context"

// Worker runs background maintenance until ctx is canceled.
type Worker interface {
	Start(ctx context.Context)
}
