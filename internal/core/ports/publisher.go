package ports

import "context"

// PublishRequest describes one deploy.
type PublishRequest struct {
	// Dir is the directory whose contents become the branch tree.
	Dir string
	// RepoDir is the local repository used to look up the remote URL.
	RepoDir     string
	Remote      string
	URL         string
	Branch      string
	Message     string
	AuthorName  string
	AuthorEmail string
	Token       string
}

// PublishResult reports the outcome of a deploy.
type PublishResult struct {
	// Commit is empty when the tree was unchanged and nothing was pushed.
	Commit string
	Files  int
}

// Publisher pushes a directory to a git branch.
//
//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest) (PublishResult, error)
}
