package bytelog

import "github.com/byteland/bytelog/internal/runtimeconfig"

var (
	ErrPostsDirRequired        = runtimeconfig.ErrPostsDirRequired
	ErrOutputPathRequired      = runtimeconfig.ErrOutputPathRequired
	ErrFrontmatterModeInvalid  = runtimeconfig.ErrFrontmatterModeInvalid
	ErrManifestPathInvalid     = runtimeconfig.ErrManifestPathInvalid
	ErrLoaderTimeoutInvalid    = runtimeconfig.ErrLoaderTimeoutInvalid
	ErrServerAddrRequired      = runtimeconfig.ErrServerAddrRequired
	ErrPublicDirRequired       = runtimeconfig.ErrPublicDirRequired
	ErrLoggingProviderRequired = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown  = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid     = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid    = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	IndexConfig   = runtimeconfig.IndexConfig
	LoaderConfig  = runtimeconfig.LoaderConfig
	RenderConfig  = runtimeconfig.RenderConfig
	ServerConfig  = runtimeconfig.ServerConfig
	LoggingConfig = runtimeconfig.LoggingConfig
	Duration      = runtimeconfig.Duration
	LoadOptions   = runtimeconfig.LoadOptions
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig layers a config file, a dotenv file and BYTELOG_* variables
// over DefaultConfig.
func LoadConfig(opts LoadOptions) (Config, error) {
	return runtimeconfig.Load(opts)
}
