package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/piwi3910/PanelCut/internal/history"
	"github.com/piwi3910/PanelCut/internal/model"
)

// BackupVersion is written into every backup file.
const BackupVersion = "1.0.0"

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version   string          `json:"version"`
	CreatedAt string          `json:"created_at"`
	Config    model.AppConfig `json:"config"`
	History   []history.Entry `json:"history"`
}

// ExportAllData exports the app config and the saved plan history to a
// single JSON file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	backup := BackupData{
		Version:   BackupVersion,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Config:    config,
		History:   entries,
	}
	data, err := json.MarshalIndent(backup, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal backup data")
	}

	if err := os.MkdirAll(filepath.Dir(exportPath), 0755); err != nil {
		return errors.Wrap(err, "failed to create export directory")
	}

	if err := os.WriteFile(exportPath, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write backup file")
	}
	return nil
}

// ImportAllData reads a backup JSON file and returns the contained data.
// The caller is responsible for applying the imported config and history,
// see RestoreHistory.
func ImportAllData(importPath string) (BackupData, error) {
	data, err := os.ReadFile(importPath)
	if err != nil {
		return BackupData{}, errors.Wrap(err, "failed to read backup file")
	}
	var backup BackupData
	if err := json.Unmarshal(data, &backup); err != nil {
		return BackupData{}, errors.Wrap(err, "failed to parse backup file")
	}
	if backup.Version == "" {
		return BackupData{}, errors.New("invalid backup file: missing version field")
	}
	// Ensure RecentJobs is never nil
	if backup.Config.RecentJobs == nil {
		backup.Config.RecentJobs = []string{}
	}
	return backup, nil
}

// RestoreHistory replaces the stored history with the backup's entries,
// keeping at most history.MaxEntries.
func RestoreHistory(store history.Store, backup BackupData) error {
	entries := backup.History
	if len(entries) > history.MaxEntries {
		entries = entries[:history.MaxEntries]
	}
	return errors.Wrap(store.Save(entries), "restore history")
}
