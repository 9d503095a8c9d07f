package configs

import (
	"context"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	gormLogger "gorm.io/gorm/logger"
	"gorm.io/gorm/utils"

	"sertifikatku_backend/internals/blockchain"
)

var (
	JWTSecret string
	ChainConf blockchain.Config
)

// =======================
// ENV LOADER
// =======================
func LoadEnv() {
	if os.Getenv("RAILWAY_ENVIRONMENT") == "" {
		if err := godotenv.Load(); err != nil {
			log.Println("⚠️ Tidak menemukan .env file, menggunakan ENV dari sistem")
		} else {
			log.Println("✅ .env file berhasil dimuat!")
		}
	} else {
		log.Println("🚀 Running in Railway, menggunakan ENV dari sistem")
	}

	JWTSecret = GetEnv("JWT_SECRET")
	if JWTSecret == "" {
		log.Println("❌ JWT_SECRET belum diset!")
	} else {
		log.Println("✅ JWT_SECRET berhasil dimuat.")
	}

	ChainConf = loadChainConfig()
	if ChainConf.ContractAddress == "" {
		log.Println("⚠️ CONTRACT_ADDRESS kosong → chain client jalan di mode mock (tanpa blockchain).")
	} else {
		log.Printf("✅ Chain config dimuat (rpc=%s, contract=%s).", ChainConf.RPCURL, ChainConf.ContractAddress)
	}
}

func GetEnv(key string, defaultValue ...string) string {
	value, exists := os.LookupEnv(key)
	if !exists && len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return value
}

// =======================
// CHAIN CONFIG
// =======================
// Semua konfigurasi chain dikumpulkan di sini dan dipass eksplisit ke
// blockchain.NewClient — adapter tidak pernah baca ENV sendiri.
func loadChainConfig() blockchain.Config {
	rpcURL := GetEnv("ETHEREUM_RPC_URL", "http://localhost:8545")

	chainID := int64(1337)
	if v := GetEnv("CHAIN_ID"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			chainID = parsed
		} else {
			log.Printf("⚠️ CHAIN_ID tidak valid (%q), pakai default %d", v, chainID)
		}
	}

	callTimeout := 45 * time.Second
	if v := GetEnv("CHAIN_CALL_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			callTimeout = time.Duration(parsed) * time.Second
		}
	}

	// Jaringan PoA (goerli/mumbai dsb.) → gas price 0 dinaikkan di adapter
	usePoA := false
	if v := GetEnv("CHAIN_REQUIRES_POA_MIDDLEWARE"); v != "" {
		usePoA, _ = strconv.ParseBool(v)
	} else {
		lower := strings.ToLower(rpcURL)
		usePoA = strings.Contains(lower, "goerli") || strings.Contains(lower, "mumbai")
	}

	return blockchain.Config{
		RPCURL:           rpcURL,
		ContractAddress:  GetEnv("CONTRACT_ADDRESS"),
		PrivateKey:       GetEnv("PRIVATE_KEY"),
		ChainID:          chainID,
		UsePoA:           usePoA,
		CallTimeout:      callTimeout,
		ContractInfoPath: GetEnv("CONTRACT_INFO_PATH"),
	}
}

// =======================
// GORM LOGGER CUSTOM
// =======================
type GormLogger struct {
	SlowThreshold time.Duration
	LogLevel      gormLogger.LogLevel
}

func NewGormLogger() gormLogger.Interface {
	return &GormLogger{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormLogger.Info,
	}
}

func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	l.LogLevel = level
	return l
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[INFO] "+msg, data...)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[WARN] "+msg, data...)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	log.Printf("[ERROR] "+msg, data...)
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()
	file := utils.FileWithLineNum()

	if err != nil {
		log.Printf("[ERROR] %s | %v | %s | %d rows | %s", file, err, elapsed, rows, sql)
	} else if elapsed > l.SlowThreshold {
		log.Printf("[SLOW SQL] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	} else {
		log.Printf("[QUERY] %s | %s | %d rows | %s", file, elapsed, rows, sql)
	}
}
