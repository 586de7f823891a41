package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"shopease.db"`
	RedisURL    string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`

	Stripe Stripe `envPrefix:"STRIPE_"`
	Rates  Rates  `envPrefix:"RATES_"`
	Admin  Admin  `envPrefix:"ADMIN_"`
	Auth   Auth   `envPrefix:"AUTH_"`
}

type Stripe struct {
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Rates struct {
	BaseURL        string `env:"BASE_URL" envDefault:"https://api.exchangerate.host/latest"`
	TimeoutSeconds int    `env:"TIMEOUT_SECONDS" envDefault:"5"`
}

type Admin struct {
	Token string `env:"TOKEN"`
}

type Auth struct {
	JWTSecret     string `env:"JWT_SECRET"`
	TokenTTLHours int    `env:"TOKEN_TTL_HOURS" envDefault:"24"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
