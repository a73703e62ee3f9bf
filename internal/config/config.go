package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type AppCfg struct{ Env, Port, SiteName, SiteURL string }
type DBCfg struct{ DSN string }
type RedisCfg struct{ Addr string }

type MpesaCfg struct {
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
	AuthURL        string
	STKPushURL     string
}

type SMTPCfg struct {
	Host       string
	Port       int
	User       string
	Pass       string
	Sender     string
	AdminEmail string
}

type CloudinaryCfg struct {
	CloudName string
	APIKey    string
	APISecret string
}

type SecurityCfg struct {
	AdminToken string // guards the /admin routes
}

type Cfg struct {
	App        AppCfg
	DB         DBCfg
	Redis      RedisCfg
	Mpesa      MpesaCfg
	SMTP       SMTPCfg
	Cloudinary CloudinaryCfg
	Sec        SecurityCfg
}

func Load() Cfg {
	// 1) Load .env into process env (if file exists)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not load .env")
	}

	// 2) Read from env via viper
	viper.AutomaticEnv()
	viper.SetDefault("APP_ENV", "sandbox")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("SITE_NAME", "Chartitze")
	viper.SetDefault("SITE_URL", "http://localhost:8080")
	viper.SetDefault("TZ", "Africa/Nairobi")
	viper.SetDefault("ADMIN_TOKEN", "")
	viper.SetDefault("SMTP_PORT", 465)
	viper.SetDefault("MPESA_AUTH_URL", "https://sandbox.safaricom.co.ke/oauth/v1/generate?grant_type=client_credentials")
	viper.SetDefault("MPESA_STK_PUSH_URL", "https://sandbox.safaricom.co.ke/mpesa/stkpush/v1/processrequest")

	// Ensure TZ
	if tz := viper.GetString("TZ"); tz != "" {
		os.Setenv("TZ", tz)
	}

	cfg := Cfg{
		App: AppCfg{
			Env:      viper.GetString("APP_ENV"),
			Port:     viper.GetString("APP_PORT"),
			SiteName: viper.GetString("SITE_NAME"),
			SiteURL:  viper.GetString("SITE_URL"),
		},
		DB:    DBCfg{DSN: viper.GetString("DB_DSN")},
		Redis: RedisCfg{Addr: viper.GetString("REDIS_ADDR")},
		Mpesa: MpesaCfg{
			ConsumerKey:    viper.GetString("MPESA_CONSUMER_KEY"),
			ConsumerSecret: viper.GetString("MPESA_CONSUMER_SECRET"),
			Shortcode:      viper.GetString("MPESA_SHORTCODE"),
			Passkey:        viper.GetString("MPESA_PASSKEY"),
			CallbackURL:    viper.GetString("MPESA_CALLBACK_URL"),
			AuthURL:        viper.GetString("MPESA_AUTH_URL"),
			STKPushURL:     viper.GetString("MPESA_STK_PUSH_URL"),
		},
		SMTP: SMTPCfg{
			Host:       viper.GetString("SMTP_HOST"),
			Port:       viper.GetInt("SMTP_PORT"),
			User:       viper.GetString("SMTP_USER"),
			Pass:       viper.GetString("SMTP_PASS"),
			Sender:     viper.GetString("SMTP_SENDER"),
			AdminEmail: viper.GetString("ADMIN_EMAIL"),
		},
		Cloudinary: CloudinaryCfg{
			CloudName: viper.GetString("CLOUDINARY_CLOUD_NAME"),
			APIKey:    viper.GetString("CLOUDINARY_API_KEY"),
			APISecret: viper.GetString("CLOUDINARY_API_SECRET"),
		},
		Sec: SecurityCfg{AdminToken: viper.GetString("ADMIN_TOKEN")},
	}

	// 3) Fail fast on required settings
	if cfg.DB.DSN == "" {
		log.Fatal().Msg("DB_DSN is required")
	}
	if cfg.Mpesa.ConsumerKey == "" || cfg.Mpesa.ConsumerSecret == "" ||
		cfg.Mpesa.Shortcode == "" || cfg.Mpesa.Passkey == "" || cfg.Mpesa.CallbackURL == "" {
		log.Fatal().Msg("MPESA_CONSUMER_KEY, MPESA_CONSUMER_SECRET, MPESA_SHORTCODE, MPESA_PASSKEY and MPESA_CALLBACK_URL are required")
	}

	return cfg
}
