package seeds

import (
	"gorm.io/gorm"

	users "sertifikatku_backend/internals/seeds/users"
)

func RunAllSeeds(db *gorm.DB) {
	//* User demo (issuer + students)
	users.SeedUsers(db)
}
