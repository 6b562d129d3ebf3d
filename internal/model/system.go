package model

// VersionInfo contains version and migration information for the application.
type VersionInfo struct {
	AppVersion       string  `json:"app_version"`
	DbVersion        int64   `json:"db_version"`
	LatestDbVersion  int64   `json:"latest_db_version"`
	MigrationNeeded  bool    `json:"migration_needed"`
	MigrationMessage *string `json:"migration_message,omitempty"`
}
