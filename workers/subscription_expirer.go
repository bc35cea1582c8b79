package workers

import (
	"time"

	"cupomzone/subscription"

	"github.com/jinzhu/gorm"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

var subscriptionsExpired = promauto.NewCounter(
	prometheus.CounterOpts{
		Name: "subscriptions_expired_total",
		Help: "Total number of subscriptions closed by the expirer worker",
	},
)

// StartSubscriptionExpirer inicia um loop que encerra assinaturas vencidas:
// ativas com cancelamento agendado viram canceladas, ativas com período
// esgotado viram expiradas. Retorna um canal que interrompe o loop ao fechar.
func StartSubscriptionExpirer(db *gorm.DB, interval time.Duration) chan<- struct{} {
	if interval <= 0 {
		interval = time.Hour
	}
	stop := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		manager := subscription.NewManager(db)
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				expireOnce(manager)
			}
		}
	}()

	return stop
}

func expireOnce(manager *subscription.Manager) {
	n, err := manager.ExpireLapsed(time.Now())
	if err != nil {
		log.WithError(err).Error("expirer: falha ao encerrar assinaturas vencidas")
		return
	}
	if n > 0 {
		subscriptionsExpired.Add(float64(n))
		log.WithField("count", n).Info("expirer: assinaturas encerradas")
	}
}
