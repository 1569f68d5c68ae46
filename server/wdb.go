package server

import (
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/everFinance/payid-validator/schema"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const sqliteName = "payid-validator.db"

type Wdb struct {
	Db *gorm.DB
}

func NewMysqlDb(dsn string) (*Wdb, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		return nil, err
	}
	log.Info("connect mysql db success")
	return &Wdb{Db: db}, nil
}

func NewSqliteDb(dbDir string) (*Wdb, error) {
	if err := os.MkdirAll(dbDir, os.ModePerm); err != nil {
		return nil, err
	}
	db, err := gorm.Open(sqlite.Open(path.Join(dbDir, sqliteName)), &gorm.Config{
		Logger:          logger.Default.LogMode(logger.Error),
		CreateBatchSize: 200,
	})
	if err != nil {
		return nil, err
	}
	log.Info("connect sqlite db success", "dir", dbDir)
	return &Wdb{Db: db}, nil
}

func (w *Wdb) Migrate() error {
	return w.Db.AutoMigrate(&schema.ReportRecord{})
}

func (w *Wdb) InsertReport(rec schema.ReportRecord) error {
	return w.Db.Create(&rec).Error
}

func (w *Wdb) GetReport(runId string) (schema.ReportRecord, error) {
	rec := schema.ReportRecord{}
	err := w.Db.Where("run_id = ?", runId).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = fmt.Errorf("%w: report %s", schema.ErrNotFound, runId)
	}
	return rec, err
}

// ListReports returns the newest reports first, optionally for one PayID.
func (w *Wdb) ListReports(limit int, payId string) ([]schema.ReportRecord, error) {
	res := make([]schema.ReportRecord, 0, limit)
	db := w.Db.Model(&schema.ReportRecord{})
	if payId != "" {
		db = db.Where("pay_id = ?", payId)
	}
	err := db.Order("id desc").Limit(limit).Find(&res).Error
	return res, err
}

func (w *Wdb) DeleteReportsBefore(t time.Time) (int64, error) {
	tx := w.Db.Where("created_at < ?", t).Delete(&schema.ReportRecord{})
	return tx.RowsAffected, tx.Error
}

func (w *Wdb) Close() {
	sql, err := w.Db.DB()
	if err == nil {
		sql.Close()
	}
}
