package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// groupTable and studentTable describe the schema only; queries go through
// sqlx in the repository package.
type groupTable struct {
	ID        int64        `gorm:"primaryKey;autoIncrement"`
	Name      string       `gorm:"not null;size:100"`
	ParentID  *int64       `gorm:"index:idx_groups_parent_id"`
	Subgroups []groupTable `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT"`
}

func (groupTable) TableName() string {
	return "groups"
}

type studentTable struct {
	ID      int64      `gorm:"primaryKey;autoIncrement"`
	Name    string     `gorm:"not null;size:100"`
	Email   string     `gorm:"not null;size:100;uniqueIndex:idx_students_email"`
	GroupID int64      `gorm:"not null;index:idx_students_group_id"`
	Group   groupTable `gorm:"constraint:OnDelete:RESTRICT"`
}

func (studentTable) TableName() string {
	return "students"
}

// Migrate creates or upgrades the groups and students tables on the given
// pool. With seed set, an empty database receives a small demo tree.
func Migrate(db *sqlx.DB, seed bool) error {
	logrus.Info("Starting database migration...")

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("error opening gorm session: %w", err)
	}

	// Сначала независимые таблицы, потом зависимые
	for _, table := range []interface{}{&groupTable{}, &studentTable{}} {
		if err := gdb.AutoMigrate(table); err != nil {
			return fmt.Errorf("error migrating table %T: %w", table, err)
		}
		logrus.WithField("table", fmt.Sprintf("%T", table)).Debug("Created/Updated table")
	}

	if seed {
		if err := seedInitialData(gdb); err != nil {
			return fmt.Errorf("error seeding initial data: %w", err)
		}
	}

	logrus.Info("Database migration completed successfully")
	return nil
}

func seedInitialData(db *gorm.DB) error {
	var groupCount int64
	if err := db.Model(&groupTable{}).Count(&groupCount).Error; err != nil {
		return err
	}
	if groupCount > 0 {
		logrus.Info("Database already has data, skipping seed")
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		root := groupTable{Name: "Mathematics"}
		if err := tx.Create(&root).Error; err != nil {
			return err
		}

		children := []groupTable{
			{Name: "Algebra", ParentID: &root.ID},
			{Name: "Geometry", ParentID: &root.ID},
		}
		if err := tx.Create(&children).Error; err != nil {
			return err
		}

		student := studentTable{
			Name:    "Ann Smith",
			Email:   "ann.smith@example.com",
			GroupID: children[0].ID,
		}
		if err := tx.Omit("Group").Create(&student).Error; err != nil {
			return err
		}

		logrus.WithField("groups", 1+len(children)).Info("Initial data seeded successfully")
		return nil
	})
}
