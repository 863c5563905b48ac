package report

import (
	"time"

	"github.com/nguyentantai21042004/caption-queue/internal/logger"
	"github.com/nguyentantai21042004/caption-queue/internal/store"
)

type implReporter struct {
	store  store.Store
	logger logger.Logger
	now    func() time.Time
}

// New creates a Reporter reading from st.
func New(st store.Store, log logger.Logger) Reporter {
	return &implReporter{
		store:  st,
		logger: log,
		now:    time.Now,
	}
}
