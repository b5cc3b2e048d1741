package main

import (
	"errors"
	"flag"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/greenplate/mealsub_go_server/config"
	"github.com/greenplate/mealsub_go_server/internal/database"
	"github.com/greenplate/mealsub_go_server/internal/model"
)

// 初始套餐数据
var defaultPlans = []model.MealPlan{
	{
		Name:         "基础套餐",
		Description:  "均衡搭配的家常菜，适合日常饮食",
		PricePerMeal: 30000,
		Active:       true,
	},
	{
		Name:         "蛋白套餐",
		Description:  "高蛋白低脂搭配，适合健身人群",
		PricePerMeal: 40000,
		Active:       true,
	},
	{
		Name:         "尊享套餐",
		Description:  "主厨定制菜单，时令食材每周更新",
		PricePerMeal: 60000,
		Active:       true,
	},
}

func main() {
	adminEmail := flag.String("admin-email", "", "管理员邮箱（为空则不创建管理员）")
	adminPassword := flag.String("admin-password", "", "管理员初始密码")
	flag.Parse()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&model.User{}, &model.MealPlan{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	seedPlans(db)

	if *adminEmail != "" && *adminPassword != "" {
		seedAdmin(db, *adminEmail, *adminPassword)
	}

	log.Println("Seed completed")
}

// seedPlans 按套餐名幂等写入初始套餐
func seedPlans(db *gorm.DB) {
	for _, plan := range defaultPlans {
		var existing model.MealPlan
		err := db.Where("name = ?", plan.Name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Failed to query plan %s: %v", plan.Name, err)
		}

		if err := db.Create(&plan).Error; err != nil {
			log.Fatalf("Failed to create plan %s: %v", plan.Name, err)
		}
		log.Printf("Created plan: %s", plan.Name)
	}
}

func seedAdmin(db *gorm.DB, email, password string) {
	var existing model.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		log.Printf("Admin %s already exists, skipping", email)
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("Failed to query admin user: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	hashStr := string(hash)
	admin := &model.User{
		Username:     "admin",
		Email:        &email,
		PasswordHash: &hashStr,
		Role:         model.RoleAdmin,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}
	log.Printf("Created admin user: %s", email)
}
