// Package dao initializes the relational store and the repository layer.
// Establishes the MySQL connection, auto-migrates the schema and exposes the
// global Repositories aggregate consumed by the service layer.
package dao

import (
	"fmt"

	"lingua_tutor_server/internal/config"
	"lingua_tutor_server/internal/dao/mysql/repository"
	"lingua_tutor_server/internal/model"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// GormDB is the global gorm instance.
var GormDB *gorm.DB

// Repos is the global repository aggregate, injected into the service layer.
var Repos *repository.Repositories

// Init connects to MySQL, migrates the schema and builds the repositories.
func Init() {
	conf := config.GetConfig()

	// user:password@tcp(host:port)/database?params
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	// Creates missing tables and adds missing columns; never drops data.
	err = GormDB.AutoMigrate(
		&model.UserInfo{},
		&model.Session{},
		&model.Message{},
	)
	if err != nil {
		zap.L().Fatal(err.Error())
	}

	Repos = repository.NewRepositories(GormDB)
}
