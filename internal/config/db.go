package config

const (
	// EngineMySQL selects the gorm MySQL driver.
	EngineMySQL = "mysql"
	// EnginePostgres selects the gorm PostgreSQL driver.
	EnginePostgres = "postgres"
)

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string
}
