package users

import (
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sertifikatku_backend/internals/constants"
	"sertifikatku_backend/internals/features/users/user/model"
)

type UserSeed struct {
	UserName string
	Password string
	Role     string
}

// Akun demo (paritas dengan skrip init DB lama)
var defaultUsers = []UserSeed{
	{UserName: "issuer1", Password: "password123", Role: constants.RoleIssuer},
	{UserName: "student1", Password: "password123", Role: constants.RoleStudent},
	{UserName: "student2", Password: "password123", Role: constants.RoleStudent},
}

func SeedUsers(db *gorm.DB) {
	for _, data := range defaultUsers {
		var existing model.UserModel
		if err := db.Where("user_name = ?", data.UserName).First(&existing).Error; err == nil {
			log.Printf("ℹ️ User '%s' sudah ada, dilewati.", data.UserName)
			continue
		}

		// 🔐 Hash password sebelum disimpan
		hashed, err := bcrypt.GenerateFromPassword([]byte(data.Password), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("❌ Gagal hash password untuk '%s': %v", data.UserName, err)
			continue
		}

		user := model.UserModel{
			UserName: data.UserName,
			Password: string(hashed),
			Role:     data.Role,
			IsActive: true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("❌ Gagal seed user '%s': %v", data.UserName, err)
			continue
		}
		log.Printf("✅ User '%s' (%s) dibuat.", data.UserName, data.Role)
	}
}
