package draft

import "github.com/m04kA/SMC-SlotScheduler/pkg/dbmetrics"

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor
