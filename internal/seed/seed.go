// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/orkestra-labs/roster-backend/internal/repository"
	"github.com/orkestra-labs/roster-backend/internal/types"
)

func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	// Check if data already exists
	members, _ := repos.MemberRepo.FindAll(ctx)
	if len(members) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial roster data...")

	// ============================================
	// CREATE MEMBERS (one per membership status)
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	confirmed := time.Date(2019, 3, 15, 0, 0, 0, 0, time.UTC)

	// 1. ASTRID - Founder (status is terminal, department editable by admins only)
	astrid := &repository.Member{
		Name:             "Astrid Halvorsen",
		RegistrationNo:   "ORK-2015-001",
		Email:            "astrid.halvorsen@orkestra.app",
		Password:         string(password),
		Phone:            stringPtr("+47 912 33 101"),
		Department:       stringPtr("Board"),
		Cohort:           intPtr(2015),
		Status:           types.StatusFounder,
		ConfirmationDate: &confirmed,
	}
	repos.MemberRepo.Create(ctx, astrid)

	// 2. JONAS - Executive (admin, can approve status requests)
	jonas := &repository.Member{
		Name:           "Jonas Lindqvist",
		RegistrationNo: "ORK-2019-014",
		Email:          "jonas.lindqvist@orkestra.app",
		Password:       string(password),
		Phone:          stringPtr("+47 912 33 102"),
		Department:     stringPtr("Operations"),
		Cohort:         intPtr(2019),
		Status:         types.StatusExecutive,
	}
	repos.MemberRepo.Create(ctx, jonas)

	// 3. MAREN - Advisory (admin)
	maren := &repository.Member{
		Name:           "Maren Dahl",
		RegistrationNo: "ORK-2017-006",
		Email:          "maren.dahl@orkestra.app",
		Password:       string(password),
		Department:     stringPtr("Finance"),
		Cohort:         intPtr(2017),
		Status:         types.StatusAdvisory,
	}
	repos.MemberRepo.Create(ctx, maren)

	// 4. EMIL - Extraordinary member (alumni tier, no admin rights)
	emil := &repository.Member{
		Name:           "Emil Bakken",
		RegistrationNo: "ORK-2016-021",
		Email:          "emil.bakken@orkestra.app",
		Password:       string(password),
		Department:     stringPtr("Alumni"),
		Cohort:         intPtr(2016),
		Status:         types.StatusExtraordinary,
	}
	repos.MemberRepo.Create(ctx, emil)

	// 5. SOFIE - Ordinary member (can self-edit personal fields only)
	sofie := &repository.Member{
		Name:           "Sofie Nygaard",
		RegistrationNo: "ORK-2023-042",
		Email:          "sofie.nygaard@orkestra.app",
		Password:       string(password),
		Phone:          stringPtr("+47 912 33 105"),
		Department:     stringPtr("Recruitment"),
		Cohort:         intPtr(2023),
		Status:         types.StatusMember,
	}
	repos.MemberRepo.Create(ctx, sofie)

	log.Printf("✅ Created 5 members: Astrid (founder), Jonas (executive), Maren (advisory), Emil (extraordinary), Sofie (member)")

	// ============================================
	// PENDING STATUS CHANGE REQUEST
	// Jonas proposes promoting Sofie to executive; Sofie must accept.
	// ============================================
	request := &repository.StatusChangeRequest{
		TargetID:    sofie.ID,
		InitiatorID: jonas.ID,
		FromStatus:  types.StatusMember,
		ToStatus:    types.StatusExecutive,
		Status:      types.RequestPending,
	}
	repos.StatusRequestRepo.Create(ctx, request)

	log.Printf("✅ Created pending status request: Jonas → Sofie (member → executive)")

	// ============================================
	// EVENTS
	// ============================================
	generalAssembly := &repository.Event{
		Title:       "General Assembly 2026",
		Description: stringPtr("Annual general assembly. Attendance mandatory for active members."),
		Location:    stringPtr("Main Hall, Storgata 12"),
		StartsAt:    time.Now().AddDate(0, 0, 14).Truncate(time.Hour),
		Fee:         decimal.Zero,
		CreatedBy:   jonas.ID,
	}
	repos.EventRepo.Create(ctx, generalAssembly)

	autumnDinner := &repository.Event{
		Title:       "Autumn Dinner",
		Description: stringPtr("Seasonal dinner for members and alumni."),
		Location:    stringPtr("Restaurant Fjord"),
		StartsAt:    time.Now().AddDate(0, 1, 10).Truncate(time.Hour),
		Fee:         decimal.NewFromInt(450),
		CreatedBy:   maren.ID,
	}
	repos.EventRepo.Create(ctx, autumnDinner)

	log.Printf("✅ Created 2 events: General Assembly, Autumn Dinner")

	// ============================================
	// FORUM POSTS
	// ============================================
	welcome := &repository.Post{
		AuthorID: astrid.ID,
		Title:    "Welcome to the new member portal",
		Body:     "The roster, events and announcements now live here. Update your contact details under your profile.",
		Pinned:   true,
	}
	repos.PostRepo.Create(ctx, welcome)

	recruitment := &repository.Post{
		AuthorID: sofie.ID,
		Title:    "Recruitment drive volunteers needed",
		Body:     "We need two more people for the stand on Thursday. Reply here or ping me directly.",
	}
	repos.PostRepo.Create(ctx, recruitment)

	log.Printf("✅ Created 2 forum posts")

	// ============================================
	// DASHBOARD SETTINGS
	// ============================================
	repos.SettingRepo.Set(ctx, "organization_name", "Orkestra", astrid.ID)
	repos.SettingRepo.Set(ctx, "contact_email", "board@orkestra.app", astrid.ID)
	repos.SettingRepo.Set(ctx, "membership_fee", "350", maren.ID)

	log.Printf("✅ Created 3 dashboard settings")

	log.Println("[Seed] ✅ Seed data created successfully!")
	log.Println("[Seed] 📝 Login with any member email, password: password123")
}

func stringPtr(s string) *string {
	return &s
}

func intPtr(i int) *int {
	return &i
}
