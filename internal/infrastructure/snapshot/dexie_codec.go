package snapshot

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MGTheTrain/record-vault/internal/domain/records"

	"github.com/xeipuuv/gojsonschema"
)

const (
	formatName    = "dexie"
	formatVersion = 1

	companiesSchema = "++id,name"
	usersSchema     = "++id,name,email,companyId"

	// DefaultFileName is the file name offered for exported snapshots
	DefaultFileName = "pwa.db"
)

//go:embed schema.json
var documentSchema []byte

type dexieDocument struct {
	FormatName    string        `json:"formatName"`
	FormatVersion int           `json:"formatVersion"`
	Data          dexieDatabase `json:"data"`
}

type dexieDatabase struct {
	DatabaseName    string           `json:"databaseName"`
	DatabaseVersion int              `json:"databaseVersion"`
	Tables          []dexieTable     `json:"tables"`
	Data            []dexieTableData `json:"data"`
}

type dexieTable struct {
	Name     string `json:"name"`
	Schema   string `json:"schema"`
	RowCount int    `json:"rowCount"`
}

type dexieTableData struct {
	TableName string          `json:"tableName"`
	Inbound   bool            `json:"inbound"`
	Rows      json.RawMessage `json:"rows"`
}

type dexieCodec struct {
	schema *gojsonschema.Schema
}

// NewDexieCodec creates a records.SnapshotCodec for the Dexie export format
func NewDexieCodec() (records.SnapshotCodec, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(documentSchema))
	if err != nil {
		return nil, fmt.Errorf("failed to compile snapshot schema: %w", err)
	}
	return &dexieCodec{schema: schema}, nil
}

// Encode writes the snapshot as a compact Dexie export document. Rows keep the
// order of the snapshot slices.
func (c *dexieCodec) Encode(snapshot *records.Snapshot) ([]byte, error) {
	companies := snapshot.Companies
	if companies == nil {
		companies = []*records.Company{}
	}
	users := snapshot.Users
	if users == nil {
		users = []*records.User{}
	}

	companyRows, err := json.Marshal(companies)
	if err != nil {
		return nil, fmt.Errorf("failed to encode companies: %w", err)
	}
	userRows, err := json.Marshal(users)
	if err != nil {
		return nil, fmt.Errorf("failed to encode users: %w", err)
	}

	doc := dexieDocument{
		FormatName:    formatName,
		FormatVersion: formatVersion,
		Data: dexieDatabase{
			DatabaseName:    snapshot.DatabaseName,
			DatabaseVersion: snapshot.Version,
			Tables: []dexieTable{
				{Name: records.TableCompanies, Schema: companiesSchema, RowCount: len(companies)},
				{Name: records.TableUsers, Schema: usersSchema, RowCount: len(users)},
			},
			Data: []dexieTableData{
				{TableName: records.TableCompanies, Inbound: true, Rows: companyRows},
				{TableName: records.TableUsers, Inbound: true, Rows: userRows},
			},
		},
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// Decode validates data against the export schema and returns its rows. Any
// failure, including an unsupported database version, is a KindImport error.
func (c *dexieCodec) Decode(data []byte) (*records.Snapshot, error) {
	if !json.Valid(data) {
		return nil, importError(fmt.Errorf("file is not a JSON document"))
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, importError(fmt.Errorf("failed to validate document: %w", err))
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			problems = append(problems, e.String())
		}
		return nil, importError(fmt.Errorf("invalid export document: %s", strings.Join(problems, "; ")))
	}

	var doc dexieDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, importError(fmt.Errorf("failed to decode document: %w", err))
	}
	if doc.Data.DatabaseVersion != records.SchemaVersion {
		return nil, importError(fmt.Errorf("incompatible database version %d, expected %d",
			doc.Data.DatabaseVersion, records.SchemaVersion))
	}

	snapshot := &records.Snapshot{
		DatabaseName: doc.Data.DatabaseName,
		Version:      doc.Data.DatabaseVersion,
		Companies:    []*records.Company{},
		Users:        []*records.User{},
	}

	for _, table := range doc.Data.Data {
		switch table.TableName {
		case records.TableCompanies:
			var rows []*records.Company
			if err := json.Unmarshal(table.Rows, &rows); err != nil {
				return nil, importError(fmt.Errorf("failed to decode companies: %w", err))
			}
			snapshot.Companies = append(snapshot.Companies, rows...)
		case records.TableUsers:
			var rows []*records.User
			if err := json.Unmarshal(table.Rows, &rows); err != nil {
				return nil, importError(fmt.Errorf("failed to decode users: %w", err))
			}
			snapshot.Users = append(snapshot.Users, rows...)
		}
	}

	if err := checkRows(snapshot); err != nil {
		return nil, importError(err)
	}
	return snapshot, nil
}

// checkRows rejects rows the store could not hold: duplicate keys and invalid ids
func checkRows(snapshot *records.Snapshot) error {
	seen := make(map[int64]bool, len(snapshot.Companies))
	for _, c := range snapshot.Companies {
		if seen[c.ID] {
			return fmt.Errorf("duplicate company id %d", c.ID)
		}
		seen[c.ID] = true
		if err := c.Validate(); err != nil {
			return fmt.Errorf("company %d: %w", c.ID, err)
		}
	}

	seen = make(map[int64]bool, len(snapshot.Users))
	for _, u := range snapshot.Users {
		if seen[u.ID] {
			return fmt.Errorf("duplicate user id %d", u.ID)
		}
		seen[u.ID] = true
		if err := u.Validate(); err != nil {
			return fmt.Errorf("user %d: %w", u.ID, err)
		}
	}
	return nil
}

func importError(err error) error {
	return records.NewError(records.KindImport, "decode snapshot", err)
}
