package cli

var (
	RenderSummary = renderSummary
	EnvFilePath   = envFilePath
	LoadEnvFile   = loadEnvFile
)
