package commands_test

import (
	"time"

	"cargo/internal/core/domain/model/kernel"
)

func kernelUUID() kernel.UUID { return kernel.NewUUID() }

func now() time.Time { return time.Now().UTC() }
