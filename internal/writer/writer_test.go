package writer

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ingestd/internal/fold"
	"ingestd/internal/parsing"
	"ingestd/internal/rawgame"
	"ingestd/internal/taxa"
)

func newMockWriter(t *testing.T) (*Writer, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	}), &gorm.Config{})
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return New(gdb, logger), mock
}

// TestWriteGame_ReimportIsIdempotent exercises the delete-then-insert
// lifecycle (SPEC_FULL.md §4.4): re-observing a game deletes any prior row
// with the same natural key before inserting the new snapshot, so repeated
// ingestion of identical upstream data converges rather than accumulating
// duplicates.
func TestWriteGame_ReimportIsIdempotent(t *testing.T) {
	w, mock := newMockWriter(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "data"."games"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "data"."weather"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "data"."games"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`INSERT INTO "data"."events"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "data"."event_baserunners"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO "data"."raw_events"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	header := parsing.Header{
		MmolbGameID: "68123abc",
		Season:      3,
		Weather:     rawgame.Weather{Name: "Sunny", Emoji: "☀️"},
		AwayTeam:    rawgame.TeamRef{Name: "Moontowers"},
		HomeTeam:    rawgame.TeamRef{Name: "Crabs"},
	}
	result := fold.Result{
		Events: []fold.EventRow{
			{
				GameEventIndex: 0,
				EventType:      taxa.HomeRun,
				Baserunners: []fold.BaserunnerRow{
					{PlayOrder: 0, BaserunnerName: "Dell Ramirez", BaseAfter: taxa.Home, DescriptionFormat: taxa.Name, IsEarned: true},
				},
			},
		},
	}

	err := w.WriteGame(context.Background(), header, time.Unix(100, 0), result, nil, []string{"Dell Ramirez homers!"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestWriteGame_SideTableAndFoldInconsistencyLogged exercises a supplemental
// side table (ejections) and checkFinalScore's cross-check against the
// upstream boxscore: a folded final score that disagrees with header's final
// score is persisted as an Error-level log row.
func TestWriteGame_SideTableAndFoldInconsistencyLogged(t *testing.T) {
	w, mock := newMockWriter(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "data"."games"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`INSERT INTO "data"."weather"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "data"."games"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectQuery(`INSERT INTO "data"."events"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "data"."event_baserunners"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(`INSERT INTO "data"."raw_events"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(`INSERT INTO "data"."ejections"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "info"."event_ingest_log"`).WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	awayFinal, homeFinal := 2, 0
	header := parsing.Header{
		MmolbGameID:    "68123abc",
		Season:         3,
		Weather:        rawgame.Weather{Name: "Sunny", Emoji: "☀️"},
		AwayTeam:       rawgame.TeamRef{Name: "Moontowers"},
		HomeTeam:       rawgame.TeamRef{Name: "Crabs"},
		AwayFinalScore: &awayFinal,
		HomeFinalScore: &homeFinal,
	}
	result := fold.Result{
		Events: []fold.EventRow{
			{
				GameEventIndex: 0,
				EventType:      taxa.HomeRun,
				AwayScoreAfter: 1,
				Baserunners: []fold.BaserunnerRow{
					{PlayOrder: 0, BaserunnerName: "Dell Ramirez", BaseAfter: taxa.Home, DescriptionFormat: taxa.Name, IsEarned: true},
				},
			},
		},
		Ejections: []fold.EjectionRow{
			{GameEventIndex: 0, Team: fold.Home, EjectedName: "Nora Delgado", ReasonText: "arguing a call"},
		},
	}

	err := w.WriteGame(context.Background(), header, time.Unix(100, 0), result, nil, []string{"Dell Ramirez homers!"})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
