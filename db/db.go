package db

import (
	"os"

	"cupomzone/config"
	"cupomzone/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/sirupsen/logrus"
)

var conf config.Configuration

func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

// Connect abre conexão com o banco (sqlite3 por padrão) e faz automigrate.
// Para habilitar automigrate em ambientes de dev, exporte AUTOMIGRATE=1.
func Connect() (*gorm.DB, error) {
	database := conf.Database
	if database == "" {
		database = "sqlite3"
	}

	var (
		db  *gorm.DB
		err error
	)

	switch database {
	case "mysql":
		logrus.Info("Utilizando conexão com o mysql...")
		dsn := conf.DbUser + ":" + conf.DbPass + "@tcp(" + conf.DbHost + ":" + conf.DbPort + ")/"
		dsn += conf.DbName + "?charset=utf8mb4&parseTime=True&loc=Local"
		db, err = gorm.Open("mysql", dsn)
	case "postgres", "postgresql":
		logrus.Info("Utilizando conexão com o postgresql...")
		path := "host=" + conf.DbHost + " port=" + conf.DbPort
		path += " user=" + conf.DbUser + " dbname=" + conf.DbName
		path += " password=" + conf.DbPass
		db, err = gorm.Open("postgres", path)
	default:
		logrus.Info("Utilizando conexão com o sqlite3...")
		db, err = gorm.Open("sqlite3", "db/database.db")
	}

	if err != nil {
		logrus.WithError(err).Error("Falha ao conectar no banco de dados")
		return nil, err
	}

	// Log em dev
	db.LogMode(true)

	if getenv("AUTOMIGRATE", "0") == "1" {
		db.AutoMigrate(
			&models.User{},
			&models.Session{},
			&models.Plan{},
			&models.Subscription{},
			&models.Payment{},
			&models.SubscriptionHistory{},
			&models.Coupon{},
			&models.Favorite{},
			&models.Feedback{},
			&models.Conversation{},
			&models.ChatMessage{},
		)
	}

	return db, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
