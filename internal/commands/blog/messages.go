package blogcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	buildIndexMessageType = "bytelog.blog.build_index"
	loadPostMessageType   = "bytelog.blog.load_post"
)

// BuildIndexCommand regenerates the manifest artifact. Empty fields fall back
// to the builder defaults configured on the handler.
type BuildIndexCommand struct {
	PostsDir      string `json:"posts_dir,omitempty"`
	OutputPath    string `json:"output_path,omitempty"`
	ContentPrefix string `json:"content_prefix,omitempty"`
}

// Type implements command.Message.
func (BuildIndexCommand) Type() string { return buildIndexMessageType }

// Validate rejects paths that are only whitespace and prefixes that would
// escape the site root.
func (cmd BuildIndexCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.PostsDir, validation.By(notBlank("bytelog.blog.build_index.posts_dir_blank", "posts directory cannot be blank"))),
		validation.Field(&cmd.OutputPath, validation.By(notBlank("bytelog.blog.build_index.output_path_blank", "output path cannot be blank"))),
		validation.Field(&cmd.ContentPrefix, validation.By(func(value any) error {
			prefix, _ := value.(string)
			for _, segment := range strings.Split(prefix, "/") {
				if segment == ".." {
					return validation.NewError("bytelog.blog.build_index.content_prefix_parent", "content prefix cannot contain ..")
				}
			}
			return nil
		})),
	)
}

// LoadPostCommand resolves one post by slug.
type LoadPostCommand struct {
	Slug string `json:"slug"`
}

// Type implements command.Message.
func (LoadPostCommand) Type() string { return loadPostMessageType }

// Validate ensures a slug is present.
func (cmd LoadPostCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Slug, validation.Required, validation.By(func(value any) error {
			slug, _ := value.(string)
			if strings.TrimSpace(slug) != slug {
				return validation.NewError("bytelog.blog.load_post.slug_whitespace", "slug cannot have surrounding whitespace")
			}
			return nil
		})),
	)
}

// notBlank accepts the empty string (meaning "use the default") but rejects
// values made only of whitespace.
func notBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != "" && strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
