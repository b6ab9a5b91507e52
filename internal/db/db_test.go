package db_test

import (
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/go-ports/scriptpack/internal/db"
)

func openTestDB(c *qt.C) *db.DB {
	c.Helper()
	d, err := db.Open(filepath.Join(c.TB.TempDir(), "history.db"))
	c.Assert(err, qt.IsNil)
	c.Cleanup(func() { _ = d.Close() })
	return d
}

func TestRecordRun_HappyPath(t *testing.T) {
	c := qt.New(t)
	d := openTestDB(c)

	id, err := d.RecordRun(&db.Run{
		WorkDir:        "/tmp/proj",
		Artifact:       "proj-20250101-120000.pack",
		FileCount:      3,
		DuplicateCount: 1,
		LogAttached:    true,
	})
	c.Assert(err, qt.IsNil)
	c.Assert(id > 0, qt.IsTrue)

	runs, err := d.RecentRuns(10)
	c.Assert(err, qt.IsNil)
	c.Assert(runs, qt.HasLen, 1)
	c.Assert(runs[0].ID, qt.Equals, id)
	c.Assert(runs[0].WorkDir, qt.Equals, "/tmp/proj")
	c.Assert(runs[0].Artifact, qt.Equals, "proj-20250101-120000.pack")
	c.Assert(runs[0].FileCount, qt.Equals, 3)
	c.Assert(runs[0].DuplicateCount, qt.Equals, 1)
	c.Assert(runs[0].LogAttached, qt.IsTrue)
	c.Assert(runs[0].CreatedAt.IsZero(), qt.IsFalse)
}

func TestRecentRuns_HappyPath(t *testing.T) {
	c := qt.New(t)
	d := openTestDB(c)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := d.RecordRun(&db.Run{
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
			WorkDir:   "/tmp/proj",
			Artifact:  "a.pack",
			FileCount: i,
		})
		c.Assert(err, qt.IsNil)
	}

	c.Run("newest first", func(c *qt.C) {
		runs, err := d.RecentRuns(10)
		c.Assert(err, qt.IsNil)
		c.Assert(runs, qt.HasLen, 3)
		c.Assert(runs[0].FileCount, qt.Equals, 2)
		c.Assert(runs[2].FileCount, qt.Equals, 0)
	})

	c.Run("limit respected", func(c *qt.C) {
		runs, err := d.RecentRuns(2)
		c.Assert(err, qt.IsNil)
		c.Assert(runs, qt.HasLen, 2)
	})

	c.Run("empty database", func(c *qt.C) {
		empty := openTestDB(c)
		runs, err := empty.RecentRuns(10)
		c.Assert(err, qt.IsNil)
		c.Assert(runs, qt.HasLen, 0)
	})
}

func TestOpen_Reopen(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(t.TempDir(), "history.db")

	d, err := db.Open(path)
	c.Assert(err, qt.IsNil)
	_, err = d.RecordRun(&db.Run{WorkDir: "w", Artifact: "a.pack", FileCount: 1})
	c.Assert(err, qt.IsNil)
	c.Assert(d.Close(), qt.IsNil)

	d2, err := db.Open(path)
	c.Assert(err, qt.IsNil)
	defer d2.Close()
	runs, err := d2.RecentRuns(10)
	c.Assert(err, qt.IsNil)
	c.Assert(runs, qt.HasLen, 1)
}
