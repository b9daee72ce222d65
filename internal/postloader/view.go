package postloader

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/byteland/bytelog/internal/logging"
	"github.com/byteland/bytelog/pkg/interfaces"
)

// State is the outcome of a post view.
type State int

const (
	StateReady State = iota
	StateIndexFailed
	StateNotFound
	StateContentFailed
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateIndexFailed:
		return "index_failed"
	case StateNotFound:
		return "not_found"
	case StateContentFailed:
		return "content_failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Title is the heading shown for the state.
func (s State) Title() string {
	switch s {
	case StateIndexFailed:
		return "Failed to load posts"
	case StateNotFound:
		return "Post Not Found"
	case StateContentFailed:
		return "Error Loading Post"
	case StateCancelled:
		return "Request Cancelled"
	default:
		return ""
	}
}

// Message is the user-facing explanation for the state.
func (s State) Message() string {
	switch s {
	case StateIndexFailed:
		return "Could not fetch blog index."
	case StateNotFound:
		return "The requested blog post could not be found."
	case StateContentFailed:
		return "Could not fetch post content."
	case StateCancelled:
		return "The request was cancelled."
	default:
		return ""
	}
}

// View is the result of a single post view. Post is set only when State is
// StateReady.
type View struct {
	ID    string
	Slug  string
	State State
	Post  *interfaces.Post
	Err   error
}

// Ready reports whether the post loaded.
func (v View) Ready() bool {
	return v.State == StateReady && v.Post != nil
}

// StateFor classifies a Load outcome. A finished context wins over any result.
func StateFor(ctx context.Context, err error) State {
	switch {
	case ctx != nil && ctx.Err() != nil, errors.Is(err, context.Canceled):
		return StateCancelled
	case err == nil:
		return StateReady
	case errors.Is(err, ErrPostNotFound):
		return StateNotFound
	case errors.Is(err, ErrContentUnavailable):
		return StateContentFailed
	default:
		return StateIndexFailed
	}
}

// View loads slug and folds every failure into a State. Errors never escape;
// the cause is kept on View.Err for logging.
func (l *Loader) View(ctx context.Context, slug string) View {
	if ctx == nil {
		ctx = context.Background()
	}

	view := View{ID: uuid.NewString(), Slug: slug}
	ctx = logging.ContextWithFields(ctx, map[string]any{"view_id": view.ID})
	logger := logging.WithPostContext(l.logger, slug, "", "").WithContext(ctx)

	post, err := l.Load(ctx, slug)
	view.State = StateFor(ctx, err)
	if view.State != StateReady {
		view.Err = err
		if view.Err == nil {
			view.Err = ctx.Err()
		}
		logger.Warn("postloader.view.failed", "state", view.State.String(), "error", view.Err)
		return view
	}

	view.Post = post
	logger.Debug("postloader.view.ready", "content_path", post.Metadata.ContentPath, "body_bytes", len(post.Body))
	return view
}
