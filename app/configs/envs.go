package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type ENV struct {
	DBHost              string
	DBUser              string
	DBPassword          string
	DBName              string
	DBPort              string
	Port                string
	PLATFORM_API_URL    string
	PLATFORM_APP_ID     string
	PLATFORM_APP_TOKEN  string
	SESSION_KEY         string
	AppAuthKey          string
	AppEncKey           string
	OTP_RESEND_COOLDOWN string
	APP_ENV             string
}

func LoadEnv() ENV {

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Warning: No .env file found ")
	}

	return ENV{
		DBHost:              os.Getenv("DB_HOST"),
		DBUser:              os.Getenv("DB_USER"),
		DBPassword:          os.Getenv("DB_PASSWORD"),
		DBName:              os.Getenv("DB_NAME"),
		DBPort:              os.Getenv("DB_PORT"),
		Port:                os.Getenv("APP_PORT"),
		PLATFORM_API_URL:    os.Getenv("PLATFORM_API_URL"),
		PLATFORM_APP_ID:     os.Getenv("PLATFORM_APP_ID"),
		PLATFORM_APP_TOKEN:  os.Getenv("PLATFORM_APP_TOKEN"),
		SESSION_KEY:         os.Getenv("SESSION_KEY"),
		AppAuthKey:          os.Getenv("APP_AUTH_KEY"),
		AppEncKey:           os.Getenv("APP_ENC_KEY"),
		OTP_RESEND_COOLDOWN: os.Getenv("OTP_RESEND_COOLDOWN"),
		APP_ENV:             os.Getenv("APP_ENV"),
	}

}

var LoadENV = LoadEnv()

// OTPResendCooldown returns the configured resend cooldown, defaulting to 30s
// when OTP_RESEND_COOLDOWN is unset or not a number of seconds.
func (e ENV) OTPResendCooldown() time.Duration {
	secs, err := strconv.Atoi(e.OTP_RESEND_COOLDOWN)
	if err != nil || secs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(secs) * time.Second
}
