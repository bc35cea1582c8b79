package controllers

import (
	"time"

	"cupomzone/config"
)

var conf config.Configuration

// SetConfigurations guarda a configuração usada pelos handlers
// (limites de tentativas e validade de sessão).
func SetConfigurations(configuration config.Configuration) {
	conf = configuration
}

func sessionMaxValidDays() int {
	if conf.Security.SessionMaxValidDays > 0 {
		return conf.Security.SessionMaxValidDays
	}
	return 7
}

func loginMaxAttempts() int {
	if conf.Security.LoginMaxAttempts > 0 {
		return conf.Security.LoginMaxAttempts
	}
	return 10
}

func registerMaxAttempts() int {
	if conf.Security.RegisterMaxAttempts > 0 {
		return conf.Security.RegisterMaxAttempts
	}
	return 5
}

func attemptWindow() time.Duration {
	if conf.Security.LoginWindowSeconds > 0 {
		return time.Duration(conf.Security.LoginWindowSeconds) * time.Second
	}
	return 5 * time.Minute
}
