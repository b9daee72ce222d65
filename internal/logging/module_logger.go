package logging

import (
	"context"
	"strings"

	"github.com/byteland/bytelog/pkg/interfaces"
)

const (
	rootModule       = "bytelog"
	blogIndexModule  = "bytelog.blogindex"
	postLoaderModule = "bytelog.postloader"
	serverModule     = "bytelog.server"
	commandsModule   = "bytelog.commands"
)

const (
	fieldPostSlug    = "slug"
	fieldPostFile    = "post_file"
	fieldContentPath = "content_path"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// BlogIndexLogger returns the logger namespace reserved for the index builder.
func BlogIndexLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, blogIndexModule)
}

// PostLoaderLogger returns the logger namespace reserved for post views.
func PostLoaderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, postLoaderModule)
}

// ServerLogger returns the logger namespace reserved for the site server.
func ServerLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, serverModule)
}

// CommandLogger returns a logger scoped under bytelog.commands. An empty name
// yields the parent namespace.
func CommandLogger(provider interfaces.LoggerProvider, name string) interfaces.Logger {
	name = strings.Trim(strings.TrimSpace(name), ".")
	if name == "" {
		return ModuleLogger(provider, commandsModule)
	}
	return ModuleLogger(provider, commandsModule+"."+name)
}

// WithPostContext enriches the logger with post fields. Empty values are ignored.
func WithPostContext(logger interfaces.Logger, slug, file, contentPath string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldPostSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(file); trimmed != "" {
		fields[fieldPostFile] = trimmed
	}
	if trimmed := strings.TrimSpace(contentPath); trimmed != "" {
		fields[fieldContentPath] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
