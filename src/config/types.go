package config

import "fmt"

type Environment string

const (
	Live Environment = "live"
	Beta Environment = "beta"
	Dev  Environment = "dev"
)

type ShiroConfig struct {
	Env         Environment `yaml:"env"`
	Addr        string      `yaml:"addr"`
	PrivateAddr string      `yaml:"private_addr"`
	BaseUrl     string      `yaml:"base_url"`
	LogLevel    string      `yaml:"log_level"`

	Postgres PostgresConfig `yaml:"postgres"`
	Storage  StorageConfig  `yaml:"storage"`
	CDN      CDNConfig      `yaml:"cdn"`
	Auth     AuthConfig     `yaml:"auth"`
	Author   AuthorConfig   `yaml:"author"`
	Sources  SourcesConfig  `yaml:"sources"`
}

type PostgresConfig struct {
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	DbName   string `yaml:"db_name"`
	LogLevel string `yaml:"log_level"`
	MinConn  int32  `yaml:"min_conn"`
	MaxConn  int32  `yaml:"max_conn"`
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

// URL returns the connection string in URL form, as expected by golang-migrate's
// pgx/v5 driver.
func (info PostgresConfig) URL() string {
	return fmt.Sprintf("pgx5://%s:%s@%s:%d/%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

// StorageConfig describes the S3-compatible object store that holds uploaded
// images. Uploads go directly from the browser to the store via presigned URLs,
// so the bucket must allow that.
type StorageConfig struct {
	Endpoint      string `yaml:"endpoint"`
	Region        string `yaml:"region"`
	Bucket        string `yaml:"bucket"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	KeyPrefix     string `yaml:"key_prefix"`
	PublicBaseUrl string `yaml:"public_base_url"`
}

type CDNConfig struct {
	PurgeUrl   string `yaml:"purge_url"`
	PurgeToken string `yaml:"purge_token"`
}

type AuthConfig struct {
	CookieDomain string `yaml:"cookie_domain"`
	CookieSecure bool   `yaml:"cookie_secure"`

	// Short name of the OAuth provider, stored alongside each user so that
	// switching providers later doesn't conflate accounts.
	Provider string `yaml:"provider"`

	OAuthClientID     string   `yaml:"oauth_client_id"`
	OAuthClientSecret string   `yaml:"oauth_client_secret"`
	OAuthAuthorizeUrl string   `yaml:"oauth_authorize_url"`
	OAuthTokenUrl     string   `yaml:"oauth_token_url"`
	OAuthUserinfoUrl  string   `yaml:"oauth_userinfo_url"`
	OAuthRedirectUrl  string   `yaml:"oauth_redirect_url"`
	OAuthScopes       []string `yaml:"oauth_scopes"`

	// Only these emails get admin access after logging in.
	AdminEmails []string `yaml:"admin_emails"`
}

// AuthorConfig is the static author profile served on the public site. A
// single-author blog doesn't need this in the database.
type AuthorConfig struct {
	Name      string `yaml:"name"`
	Bio       string `yaml:"bio"`
	AvatarUrl string `yaml:"avatar_url"`
	GitHubUrl string `yaml:"github_url"`
	QiitaUrl  string `yaml:"qiita_url"`
}

type SourcesConfig struct {
	MicroCMS  MicroCMSConfig  `yaml:"microcms"`
	WordPress WordPressConfig `yaml:"wordpress"`
	Qiita     QiitaConfig     `yaml:"qiita"`
}

type MicroCMSConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

type WordPressConfig struct {
	BaseUrl string `yaml:"base_url"`
}

type QiitaConfig struct {
	UserID string `yaml:"user_id"`
	Token  string `yaml:"token"`
}
