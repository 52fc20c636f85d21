package engine

import (
	"time"

	"github.com/rs/zerolog"
)

// terminateGroup implements the kill escalation protocol: send the soft
// signal, wait out the grace period, then send the hard signal if the
// group is still alive. It runs synchronously; callers that must not block
// (the Dispatcher contract) invoke it in its own goroutine.
func terminateGroup(pgid int, grace time.Duration, logger zerolog.Logger) {
	if pgid == 0 {
		return
	}

	logger.Debug().Int("pgid", pgid).Dur("grace", grace).Msg("sending soft terminate signal")
	if err := killProcessGroup(pgid, SignalTerm); err != nil {
		logger.Debug().Err(err).Int("pgid", pgid).Msg("soft terminate signal failed, escalating immediately")
	} else {
		time.Sleep(grace)
	}

	if !processGroupAlive(pgid) {
		return
	}

	logger.Warn().Int("pgid", pgid).Msg("process group survived grace period, sending hard kill signal")
	if err := killProcessGroup(pgid, SignalKill); err != nil {
		logger.Error().Err(err).Int("pgid", pgid).Msg("hard kill signal failed")
	}
}
