package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Cfg struct {
	App        App
	Database   Database
	Logger     Logger
	OpenAI     OpenAI
	Browser    Browser
	Portal     Portal
	Migrations Migrations
}

type App struct {
	Host string
	Port string
}

type Database struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
}

type Migrations struct {
	Path string
}

type Logger struct {
	Env   string
	Level string
}

type OpenAI struct {
	KeyAI     string
	Model     string
	MaxTokens int
}

type Browser struct {
	Display      string
	Headless     bool
	UserDataDir  string
	BrowsersPath string
}

// Portal описывает студенческий портал: адреса, селекторы формы входа,
// стратегии поиска блоков предметов и пороги посещаемости.
type Portal struct {
	LoginURL      string
	AttendanceURL string
	SuccessURL    string
	FailureURL    string

	UsernameField  string
	PasswordField  string
	CaptchaField   string
	CaptchaImage   string
	LoginButton    string
	RefreshCaptcha string
	ErrorLabel     string

	PlusIconSelector  string
	PlusIconXPath     string
	AltSelectors      []string
	SubjectContainer  string
	ConductedSelector string
	AttendedSelector  string

	CaptchaPrompts  []string
	CaptchaAttempts int
	LoginAttempts   int

	GoodThreshold    float64
	WarningThreshold float64

	StudentCode string
	Password    string
}

// Варианты промптов перебираются решателем капчи по кругу.
var defaultCaptchaPrompts = []string{
	"Extract only the alphanumeric text from this captcha image. Return just the characters with no explanations, no prefixes, no quotes - only the pure text characters.",
	"What text is shown in this captcha image? Reply with only the text characters in.",
	"Read the captcha code from this image. Output only the code.",
	"OCR this captcha image. Return only the alphanumeric characters.",
}

var defaultAltSelectors = []string{
	"i[class*='plus']",
	"i[class*='bx-plus']",
	"i[class*='fa-plus']",
	"button[class*='expand']",
	"[class*='expand']",
}

func Load() (*Cfg, error) {
	_ = godotenv.Load()

	cfg := &Cfg{
		App: App{
			Host: env("APP_HOST", "0.0.0.0"),
			Port: env("APP_PORT", "5001"),
		},
		Database: Database{
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			Name:     os.Getenv("DB_NAME"),
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASS"),
		},
		Logger: Logger{
			Env:   env("ENV", "dev"),
			Level: env("LOG_LEVEL", "info"),
		},
		OpenAI: OpenAI{
			KeyAI:     os.Getenv("OPENAI_API_KEY"),
			Model:     env("OPENAI_MODEL", "gpt-4o"),
			MaxTokens: envInt("OPENAI_MAX_TOKENS", 100),
		},
		Browser: Browser{
			Display:      env("DISPLAY", ":0"),
			Headless:     envBool("PW_HEADLESS"),
			UserDataDir:  env("PW_USER_DATA_DIR", ""),
			BrowsersPath: env("PLAYWRIGHT_BROWSERS_PATH", ""),
		},
		Portal: Portal{
			LoginURL:      env("PORTAL_LOGIN_URL", "https://student.jgianveshana.com"),
			AttendanceURL: env("PORTAL_ATTENDANCE_URL", "https://student.jgianveshana.com/ui/Academics/js_Class_Attendance_for_a_Week.aspx"),
			SuccessURL:    env("PORTAL_SUCCESS_URL", "https://student.jgianveshana.com/ui/dashboard/index.aspx"),
			FailureURL:    env("PORTAL_FAILURE_URL", "https://student.jgianveshana.com/"),

			UsernameField:  env("PORTAL_USERNAME_FIELD", "input[name='txtUserName']"),
			PasswordField:  env("PORTAL_PASSWORD_FIELD", "input[name='txtPassword']"),
			CaptchaField:   env("PORTAL_CAPTCHA_FIELD", "input[name='txtCaptcha']"),
			CaptchaImage:   env("PORTAL_CAPTCHA_IMAGE", "img[src*='CaptchaImage.axd']"),
			LoginButton:    env("PORTAL_LOGIN_BUTTON", "input[name='btnLogIn']"),
			RefreshCaptcha: env("PORTAL_REFRESH_CAPTCHA", "a[id='lnkbtnrefresh']"),
			ErrorLabel:     env("PORTAL_ERROR_LABEL", "#lblValid"),

			PlusIconSelector:  env("PORTAL_PLUS_ICON", "i.bx-plus-circle"),
			PlusIconXPath:     env("PORTAL_PLUS_ICON_XPATH", "//i[contains(@class, 'bx-plus-circle')]"),
			AltSelectors:      defaultAltSelectors,
			SubjectContainer:  env("PORTAL_SUBJECT_CONTAINER", ".col-lg-12"),
			ConductedSelector: env("PORTAL_CONDUCTED_SELECTOR", "span[id*='lblClsCondID']"),
			AttendedSelector:  env("PORTAL_ATTENDED_SELECTOR", "span[id*='lblClsAttID']"),

			CaptchaPrompts:  defaultCaptchaPrompts,
			CaptchaAttempts: envInt("CAPTCHA_ATTEMPTS", 3),
			LoginAttempts:   envInt("LOGIN_ATTEMPTS", 2),

			GoodThreshold:    envFloat("GOOD_ATTENDANCE_THRESHOLD", 75),
			WarningThreshold: envFloat("WARNING_ATTENDANCE_THRESHOLD", 65),

			StudentCode: os.Getenv("STUDENT_CODE"),
			Password:    os.Getenv("DOB_PASSWORD"),
		},
		Migrations: Migrations{
			Path: env("MIGRATIONS_PATH", "file://migrations"),
		},
	}

	return cfg, nil
}

func env(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func envInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func envFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "true" || v == "1" || v == "yes"
}
