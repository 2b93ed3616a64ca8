package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://checkout.db"`

	Billing  Billing  `envPrefix:"BILLING_"`
	Merchant Merchant `envPrefix:"MERCHANT_"`
	Auth     Auth     `envPrefix:"AUTH_"`
}

type Billing struct {
	BaseApiURL string        `env:"BASE_API_URL" envDefault:"https://sandbox-app.vindi.com.br/api/v1"`
	ApiKey     string        `env:"API_KEY"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

// Merchant holds the store-wide checkout settings.
type Merchant struct {
	// SendTaxDocuments enables sending state registration / identity document
	// numbers as customer metadata.
	SendTaxDocuments     bool   `env:"SEND_TAX_DOCUMENTS" envDefault:"false"`
	DiscountProductTitle string `env:"DISCOUNT_PRODUCT_TITLE" envDefault:"Discount coupon"`
	DiscountProductCode  string `env:"DISCOUNT_PRODUCT_CODE" envDefault:"wc-discount"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET" envDefault:"super-secret-jwt-key"`
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
