package seeders

import (
	"eschool_go/database"
	"eschool_go/models"
	"eschool_go/services"
	"eschool_go/utils"
	"log"
	"time"
)

// SeedAll runs all seeders
func SeedAll() {
	log.Println("Starting database seeding...")

	SeedUsers()
	SeedScholarships()
	SeedStudents()
	SeedAwards()
	SeedPayments()

	log.Println("Database seeding completed successfully!")
}

// SeedUsers seeds the users table with one account per role
func SeedUsers() {
	var count int64
	database.DB.Model(&models.User{}).Count(&count)
	if count > 0 {
		log.Println("Users already seeded, skipping...")
		return
	}

	password, err := utils.HashPassword("changeme123")
	if err != nil {
		log.Printf("Error hashing seed password: %v", err)
		return
	}

	users := []models.User{
		{
			Username: "admin",
			Password: password,
			Email:    "admin@eschool.local",
			Role:     "admin",
			Status:   "active",
		},
		{
			Username: "accountant",
			Password: password,
			Email:    "accounts@eschool.local",
			Role:     "accountant",
			Status:   "active",
		},
		{
			Username: "teacher1",
			Password: password,
			Email:    "teacher1@eschool.local",
			Role:     "teacher",
			Status:   "active",
		},
		{
			Username: "parent1",
			Password: password,
			Email:    "parent1@eschool.local",
			Role:     "parent",
			Status:   "active",
		},
		{
			Username: "student1",
			Password: password,
			Email:    "student1@eschool.local",
			Role:     "student",
			Status:   "active",
		},
	}

	for _, user := range users {
		if err := database.DB.Create(&user).Error; err != nil {
			log.Printf("Error seeding user %s: %v", user.Username, err)
		}
	}

	log.Println("Users seeded successfully")
}

// SeedScholarships seeds the scholarship catalog with common programs
func SeedScholarships() {
	var count int64
	database.DB.Model(&models.Scholarship{}).Count(&count)
	if count > 0 {
		log.Println("Scholarships already seeded, skipping...")
		return
	}

	scholarships := []models.Scholarship{
		{
			Name:            "Merit Award",
			ScholarshipType: "merit",
			Description:     "Awarded to students with outstanding academic performance across all subjects.",
			Amount:          10000,
			Criteria:        "Top 5% of class in the previous academic year.",
			Active:          true,
		},
		{
			Name:            "Need-based Support",
			ScholarshipType: "need",
			Description:     "Financial support for students from low-income families.",
			Amount:          15000,
			Criteria:        "Family income below the declared threshold; documents required.",
			Active:          true,
		},
		{
			Name:            "Sports Excellence",
			ScholarshipType: "sports",
			Description:     "For students representing the school at district level or above.",
			Amount:          8000,
			Criteria:        "Selection in district, state, or national teams.",
			Active:          true,
		},
	}

	for _, s := range scholarships {
		if err := database.DB.Create(&s).Error; err != nil {
			log.Printf("Error seeding scholarship %s: %v", s.Name, err)
		}
	}

	log.Println("Scholarships seeded successfully")
}

// SeedStudents links the seeded student and parent accounts to a profile
func SeedStudents() {
	var count int64
	database.DB.Model(&models.Student{}).Count(&count)
	if count > 0 {
		log.Println("Students already seeded, skipping...")
		return
	}

	var studentUser, parentUser models.User
	if err := database.DB.Where("username = ?", "student1").First(&studentUser).Error; err != nil {
		log.Printf("Student user not found, skipping student seed: %v", err)
		return
	}

	student := models.Student{
		UserID:        studentUser.ID,
		StudentNumber: "STU-0001",
		FirstName:     "Nara",
		LastName:      "Chai",
		GradeLevel:    "M1",
		AcademicYear:  "2025",
		Active:        true,
	}
	if err := database.DB.Where("username = ?", "parent1").First(&parentUser).Error; err == nil {
		student.ParentUserID = &parentUser.ID
		student.ParentName = "Somchai Chai"
	}

	if err := database.DB.Create(&student).Error; err != nil {
		log.Printf("Error seeding student %s: %v", student.StudentNumber, err)
		return
	}

	log.Println("Students seeded successfully")
}

// SeedAwards grants the seeded student one catalog scholarship
func SeedAwards() {
	var count int64
	database.DB.Model(&models.StudentScholarship{}).Count(&count)
	if count > 0 {
		log.Println("Awards already seeded, skipping...")
		return
	}

	var student models.Student
	var scholarship models.Scholarship
	if err := database.DB.First(&student).Error; err != nil {
		log.Printf("No student to award, skipping award seed: %v", err)
		return
	}
	if err := database.DB.Where("name = ?", "Merit Award").First(&scholarship).Error; err != nil {
		log.Printf("No scholarship to award, skipping award seed: %v", err)
		return
	}

	award := models.StudentScholarship{
		StudentID:     student.ID,
		ScholarshipID: scholarship.ID,
		AwardDate:     services.StartOfDay(time.Now()),
		AmountAwarded: scholarship.Amount,
		AcademicYear:  student.AcademicYear,
		Active:        true,
	}
	if err := database.DB.Create(&award).Error; err != nil {
		log.Printf("Error seeding award: %v", err)
		return
	}

	log.Println("Awards seeded successfully")
}

// SeedPayments writes a term of monthly tuition fee items for the seeded student
func SeedPayments() {
	var count int64
	database.DB.Model(&models.Payment{}).Count(&count)
	if count > 0 {
		log.Println("Payments already seeded, skipping...")
		return
	}

	var student models.Student
	if err := database.DB.First(&student).Error; err != nil {
		log.Printf("No student to bill, skipping payment seed: %v", err)
		return
	}

	now := time.Now()
	termStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		due := termStart.AddDate(0, i, 0)
		payment := models.Payment{
			StudentID:    student.ID,
			PaymentType:  "tuition",
			Amount:       4000,
			DueDate:      due,
			AcademicYear: student.AcademicYear,
			Description:  "Monthly tuition " + due.Format("January 2006"),
			Status:       services.DeriveStatus(4000, 0, due, now),
		}
		if err := database.DB.Create(&payment).Error; err != nil {
			log.Printf("Error seeding payment for %s: %v", due.Format("2006-01"), err)
		}
	}

	log.Println("Payments seeded successfully")
}
