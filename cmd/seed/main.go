package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskboard/internal/database"
	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "taskboard.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	// Cleanup old data (in safe order to avoid foreign key errors)
	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM thread_participants")
	db.Exec("DELETE FROM message_threads")
	db.Exec("DELETE FROM tasks")
	db.Exec("DELETE FROM projects")
	db.Exec("DELETE FROM workspace_members")
	db.Exec("DELETE FROM workspaces")
	db.Exec("DELETE FROM users")

	ctx := context.Background()
	users := repository.NewUserRepository(db)
	workspaces := repository.NewWorkspaceRepository(db)
	projects := repository.NewProjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	threads := repository.NewThreadRepository(db)
	notifications := repository.NewNotificationRepository(db)

	// ================== USERS ==================
	log.Println("Creating users...")

	emails := []string{"alice@taskboard.dev", "bob@taskboard.dev", "carol@taskboard.dev"}
	names := []string{"Alice", "Bob", "Carol"}
	seeded := make([]*domain.User, 0, len(emails))
	for i, email := range emails {
		hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
		u := &domain.User{
			Email:        email,
			PasswordHash: string(hash),
			Name:         names[i],
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal("seed user failed:", err)
		}
		seeded = append(seeded, u)
		log.Printf("User created: %s / password123", email)
	}
	alice, bob, carol := seeded[0], seeded[1], seeded[2]

	// ================== WORKSPACE ==================
	log.Println("Creating workspace...")

	ws := &domain.Workspace{Name: "Acme Launch", OwnerID: alice.ID}
	if err := workspaces.Create(ctx, ws); err != nil {
		log.Fatal("seed workspace failed:", err)
	}
	for _, u := range []*domain.User{bob, carol} {
		m := &domain.WorkspaceMember{
			WorkspaceID: ws.ID,
			UserID:      u.ID,
			Role:        domain.RoleMember,
		}
		if err := workspaces.AddMember(ctx, m); err != nil {
			log.Fatal("seed member failed:", err)
		}
	}

	// ================== PROJECT + TASKS ==================
	log.Println("Creating project and tasks...")

	p := &domain.Project{WorkspaceID: ws.ID, Name: "Website Redesign", CreatedBy: alice.ID}
	if err := projects.Create(ctx, p); err != nil {
		log.Fatal("seed project failed:", err)
	}

	titles := []string{"Draft landing page copy", "Set up CI pipeline", "Review color palette"}
	var firstTask *domain.Task
	for i, title := range titles {
		t := &domain.Task{
			WorkspaceID: ws.ID,
			ProjectID:   p.ID,
			Title:       title,
			Status:      domain.TaskTodo,
			CreatedBy:   alice.ID,
		}
		if i == 0 {
			t.AssigneeID = bob.ID
		}
		if err := tasks.Create(ctx, t); err != nil {
			log.Fatal("seed task failed:", err)
		}
		if i == 0 {
			firstTask = t
		}
	}

	// ================== CHAT ==================
	log.Println("Creating thread and messages...")

	th := &domain.MessageThread{WorkspaceID: ws.ID, Title: "General", CreatedBy: alice.ID}
	if err := threads.CreateThread(ctx, th, nil); err != nil {
		log.Fatal("seed thread failed:", err)
	}
	for i, content := range []string{"Welcome to the board!", "Kickoff call tomorrow at 10."} {
		m := &domain.Message{
			ThreadID: th.ID,
			SenderID: seeded[i].ID,
			PublicID: uuid.NewString(),
			Content:  content,
		}
		if err := threads.CreateMessage(ctx, m); err != nil {
			log.Fatal("seed message failed:", err)
		}
	}

	// ================== NOTIFICATIONS ==================
	log.Println("Creating notifications...")

	n := &domain.Notification{
		UserID:      bob.ID,
		ActorID:     alice.ID,
		Type:        domain.NotifTaskAssigned,
		Title:       "New task assigned: " + firstTask.Title,
		WorkspaceID: ws.ID,
		ProjectID:   p.ID,
		TaskID:      firstTask.ID,
	}
	if err := notifications.Create(ctx, n); err != nil {
		log.Fatal("seed notification failed:", err)
	}

	log.Println("Seed complete.")
}
