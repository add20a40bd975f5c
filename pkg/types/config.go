package types

type Config struct {
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ServerPort      uint   `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"10"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"15"`

	// Item storage. The store holds named JSON blobs; the backend decides
	// where those blobs live.
	//   badger   - embedded local store (default)
	//   postgres - single key/value table, DATABASE_URL required
	//   s3       - one object per key, S3_BUCKET required
	StorageBackend string `envconfig:"STORAGE_BACKEND" default:"badger"`
	BadgerPath     string `envconfig:"BADGER_PATH" default:"data/reclaim"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	S3Bucket       string `envconfig:"S3_BUCKET"`
	S3KeyPrefix    string `envconfig:"S3_KEY_PREFIX" default:"reclaim"`

	// Cognito Auth
	CognitoUserPoolID string `envconfig:"COGNITO_USER_POOL_ID"`
	CognitoClientID   string `envconfig:"COGNITO_CLIENT_ID"`
	CognitoIssuerURL  string `envconfig:"COGNITO_ISSUER_URL"`

	// Cookie encryption keys (base64 encoded)
	// openssl rand -base64 32
	// to generate values
	CookieHashKey  string `envconfig:"COOKIE_HASH_KEY"`  // 32 or 64 bytes
	CookieBlockKey string `envconfig:"COOKIE_BLOCK_KEY"` // 16, 24, or 32 bytes

	SessionMaxAgeSec int `envconfig:"SESSION_MAX_AGE_SEC" default:"604800"` // 7 days

	// Owner notifications (EmailJS). Left empty, sends are logged only.
	EmailJSServiceID      string `envconfig:"EMAILJS_SERVICE_ID"`
	EmailJSPublicKey      string `envconfig:"EMAILJS_PUBLIC_KEY"`
	EmailJSSeenTemplateID string `envconfig:"EMAILJS_SEEN_TEMPLATE_ID"`
	EmailJSHaveTemplateID string `envconfig:"EMAILJS_HAVE_TEMPLATE_ID"`
}
