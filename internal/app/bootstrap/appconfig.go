// internal/app/bootstrap/appconfig.go
package bootstrap

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (HTTP ports, TLS,
// logging level, CORS, request limits). AppConfig is everything specific
// to FacultyHub: the MongoDB connection, session cookies, file storage,
// Microsoft OAuth, and the bootstrap superadmin account.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: facultyhub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// File storage configuration
	StorageType      string // Storage backend: "local" or "s3"
	StorageLocalPath string // Local storage path (e.g., "./uploads/faculty")
	StorageLocalURL  string // URL prefix for serving local files (e.g., "/files/faculty")

	// S3/CloudFront configuration (only used if StorageType is "s3")
	StorageS3Region    string // AWS region
	StorageS3Bucket    string // S3 bucket name
	StorageS3Prefix    string // Key prefix (e.g., "faculty/")
	StorageCFURL       string // CloudFront distribution URL
	StorageCFKeyPairID string // CloudFront key pair ID
	StorageCFKeyPath   string // Path to CloudFront private key file

	// Microsoft OAuth configuration (faculty sign-in)
	MicrosoftClientID     string // Azure AD application (client) ID
	MicrosoftClientSecret string // Azure AD client secret
	MicrosoftTenantID     string // Azure AD tenant; blank means the multi-tenant "common" endpoint

	// SuperAdmin bootstrap (created or kept on startup)
	SuperAdminEmail    string // Email of the superadmin account
	SuperAdminName     string // Display name for the superadmin account
	SuperAdminPassword string // Initial password; ignored if the account already exists

	// Base URL for OAuth callbacks and absolute links
	BaseURL string // e.g., "https://facultyhub.example.edu" or "http://localhost:3000"
}
