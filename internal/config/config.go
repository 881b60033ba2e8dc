package config

import (
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

// Public holds settings safe to log or expose. Durations are plain numbers
// in yaml and interpreted as seconds at the use site.
type Public struct {
	Pg                   Pg            `yaml:"pg"`
	HTTPPort             int           `yaml:"http_port"`
	LogLevel             string        `yaml:"log_level"`
	LogJSON              bool          `yaml:"log_json"`
	SessionTTL           time.Duration `yaml:"session_ttl"`
	LoginAttempts        int           `yaml:"login_attempts"` // grants per window per key
	LoginWindow          time.Duration `yaml:"login_window"`
	PostsPerPage         int           `yaml:"posts_per_page"`
	VerificationTokenLen int           `yaml:"verification_token_len"`
	AllowedOrigins       []string      `yaml:"allowed_origins"`
	SecureCookies        bool          `yaml:"secure_cookies"`
	AppBaseURL           string        `yaml:"app_base_url"` // used in verification links
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Private struct {
	JwtKey string `yaml:"jwt_key"`
	Email  Email  `yaml:"email"`
}

type Email struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SenderName string `yaml:"sender_name"`
	Timeout    int    `yaml:"timeout"` // seconds
}

func (c *Config) JwtKey() string {
	return c.private.JwtKey
}

func (c *Config) EmailConfig() *Email {
	return &c.private.Email
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	return &Config{public, private}
}
