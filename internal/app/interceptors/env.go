package interceptors

const (
	EnvDev   = "dev"
	EnvLocal = "local"
	EnvProd  = "prod"
)
