package entity

import "time"

// ActionType admin jurnalidagi harakat turi
type ActionType string

const (
	ActionLogin         ActionType = "login"
	ActionImportCatalog ActionType = "import_catalog"
	ActionExportCatalog ActionType = "export_catalog"
	ActionDeleteProduct ActionType = "delete_product"
	ActionSubmitProduct ActionType = "submit_product"
)

// AdminSession bot yoki CLI orqali kirgan admin sessiyasi.
// LastActivity har bir IsAdmin tekshiruvida yangilanadi.
type AdminSession struct {
	UserID       int64
	IsAdmin      bool
	LoginTime    time.Time
	LastActivity time.Time
}

// AdminAction katalogni o'zgartirgan yoki o'qigan admin harakati
type AdminAction struct {
	ID        string
	UserID    int64
	Action    ActionType
	Details   string
	Timestamp time.Time
}
