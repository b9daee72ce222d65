package interfaces

// MarkdownRenderer converts a post body into HTML. basePath is the site
// directory the post was fetched from; relative links and images inside the
// body resolve against it.
type MarkdownRenderer interface {
	Render(markdown []byte, basePath string) ([]byte, error)
}

// RenderOptions customises Markdown rendering. Names stay readable so they can
// be filled from configuration files and flags.
type RenderOptions struct {
	Extensions []string
	HardWraps  bool
	SafeMode   bool
}
