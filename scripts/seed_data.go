package main

import (
	"fmt"
	"log"

	"github.com/infolink/internal/config"
	"github.com/infolink/internal/db"
	"github.com/infolink/internal/service"
)

// 测试数据生成器
func main() {
	cfg := config.Load()
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatal("数据库初始化失败:", err)
	}

	fmt.Println("开始生成测试数据...")

	users := createTestUsers()
	createTestBoards(users)

	fmt.Println("测试数据生成完成！")
	fmt.Println("用户: alice@example.com / bob@example.com (密码: password123)")
	fmt.Println("帖子: 每个用户5篇")
}

func createTestUsers() []db.User {
	var count int64
	db.DB.Model(&db.User{}).Count(&count)
	if count > 0 {
		fmt.Println("用户已存在，跳过创建")
		var existing []db.User
		db.DB.Find(&existing)
		return existing
	}

	svc := service.NewUserService(db.DB)
	inputs := []service.UserInput{
		{Email: "alice@example.com", Username: "alice", Password: "password123"},
		{Email: "bob@example.com", Username: "bob", Password: "password123"},
	}

	created := make([]db.User, 0, len(inputs))
	for _, input := range inputs {
		user, err := svc.Create(input)
		if err != nil {
			log.Fatal("创建用户失败:", err)
		}
		created = append(created, *user)
	}
	return created
}

func createTestBoards(users []db.User) {
	var count int64
	db.DB.Model(&db.Board{}).Count(&count)
	if count > 0 {
		fmt.Println("帖子已存在，跳过创建")
		return
	}

	svc := service.NewBoardService(db.DB)
	for _, user := range users {
		for i := 1; i <= 5; i++ {
			title := fmt.Sprintf("%s 的第 %d 篇帖子", user.Username, i)
			content := fmt.Sprintf("# %s\n\n这是 **%s** 写的第 %d 篇测试内容。", title, user.Username, i)
			if _, err := svc.Create(user.ID, title, content); err != nil {
				log.Fatal("创建帖子失败:", err)
			}
		}
	}
}
