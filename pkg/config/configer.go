package config

type Configer interface {
	LoadFromPath(path string) error
	Load() error
	GetKey(key string) string
	MustGetKey(key string) string
	GetKeyWithDefault(key, defaultValue string) string
	GetIntKey(key string) int
	MustGetIntKey(key string) int
	GetIntKeyWithDefault(key string, defaultValue int) int
}

// Keys understood by tagsearchd.
const (
	KeyDotenvPath        = "TAGSEARCH_DOTENV_PATH"
	KeyPort              = "TAGSEARCH_PORT"
	KeyBackend           = "TAGSEARCH_BACKEND"
	KeyUserKey           = "TAGSEARCH_USER_KEY"
	KeyUsertagsURL       = "TAGSEARCH_USERTAGS_URL"
	KeyLogLevel          = "TAGSEARCH_LOG_LEVEL"
	KeyLogFile           = "TAGSEARCH_LOG_FILE"
	KeySessionTTLMinutes = "TAGSEARCH_SESSION_TTL_MINUTES"
	KeyGatewayURL        = "OMERO_GATEWAY_URL"
	KeyGatewaySession    = "OMERO_GATEWAY_SESSION"
	KeyDBDriver          = "DB_DRIVER"
)

const (
	BackendDB      = "db"
	BackendGateway = "gateway"
)
