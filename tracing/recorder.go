// Package tracing records a simulation's event trace to a SQLite database
// for offline analysis. It observes a running Scheduler through sim.Hook —
// it never touches simulation state, only logs what already happened.
package tracing

import (
	"database/sql"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// EventEntry is one recorded row: an Event that fired, when, and under what
// debug ID.
type EventEntry struct {
	Time     float64
	EventID  string
	Kind     string
	HookName string
}

// Recorder buffers EventEntry rows and periodically flushes them to a
// SQLite database, the way the teacher's datarecording.DataRecorder does
// for arbitrary flat structs.
type Recorder struct {
	db        *sql.DB
	statement *sql.Stmt

	dbName     string
	tableName  string
	entries    []EventEntry
	batchSize  int
	entryCount int
}

// NewRecorder creates a Recorder backed by a fresh SQLite file at path (or,
// if path is empty, a generated name under the current directory). It
// panics if the file already exists, to avoid silently appending to a
// stale trace from a previous run.
func NewRecorder(path string) *Recorder {
	r := &Recorder{
		dbName:    path,
		tableName: "events",
		batchSize: 10000,
	}

	r.init()

	atexit.Register(r.Flush)

	return r
}

func (r *Recorder) init() {
	if r.dbName == "" {
		r.dbName = "simkit_trace_" + xid.New().String()
	}

	filename := r.dbName
	if !strings.HasSuffix(filename, ".sqlite3") {
		filename += ".sqlite3"
	}

	if _, err := os.Stat(filename); err == nil {
		panic(fmt.Errorf("trace file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "recording trace to %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	r.db = db

	names := structs.Names(EventEntry{})
	createSQL := "CREATE TABLE " + r.tableName +
		" (" + "\n\t" + strings.Join(names, ", \n\t") + "\n)"
	r.mustExecute(createSQL)
}

// Record appends entry to the buffer, flushing automatically once the
// buffer reaches its batch size.
func (r *Recorder) Record(entry EventEntry) {
	r.entries = append(r.entries, entry)

	r.entryCount++
	if r.entryCount >= r.batchSize {
		r.Flush()
	}
}

// Flush writes every buffered entry to the database in a single
// transaction.
func (r *Recorder) Flush() {
	if r.entryCount == 0 {
		return
	}

	r.mustExecute("BEGIN TRANSACTION")
	defer r.mustExecute("COMMIT TRANSACTION")

	r.prepareStatement()
	defer func() {
		r.statement.Close()
		r.statement = nil
	}()

	for _, entry := range r.entries {
		fields := structs.Values(entry)

		_, err := r.statement.Exec(fields...)
		if err != nil {
			panic(err)
		}
	}

	r.entries = nil
	r.entryCount = 0
}

func (r *Recorder) prepareStatement() {
	names := structs.Names(EventEntry{})
	placeholders := make([]string, len(names))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	sqlStr := "INSERT INTO " + r.tableName +
		" VALUES (" + strings.Join(placeholders, ", ") + ")"

	stmt, err := r.db.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	r.statement = stmt
}

func (r *Recorder) mustExecute(query string) sql.Result {
	res, err := r.db.Exec(query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func kindOf(item interface{}) string {
	return reflect.TypeOf(item).String()
}
