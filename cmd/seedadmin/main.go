// cmd/seedadmin/main.go — cria/atualiza o usuário administrador inicial.
// Uso: go run ./cmd/seedadmin
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/omangatech-hub/chefconta/internal/infra"
	"github.com/omangatech-hub/chefconta/internal/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "chefconta.db"
	}
	username := "admin"
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		log.Fatalf("bcrypt error: %v", err)
	}

	db, err := infra.NewDatabase(dsn)
	if err != nil {
		log.Fatalf("db connect error: %v", err)
	}

	ctx := context.Background()
	var existente model.Usuario
	err = db.WithContext(ctx).Where("username = ?", username).First(&existente).Error
	switch err {
	case nil:
		existente.SenhaHash = string(hash)
		existente.Papel = model.PapelAdmin
		existente.Ativo = true
		if err := db.WithContext(ctx).Save(&existente).Error; err != nil {
			log.Fatalf("update error: %v", err)
		}
	case gorm.ErrRecordNotFound:
		novo := model.Usuario{
			Username:  username,
			Nome:      "Administrador",
			SenhaHash: string(hash),
			Papel:     model.PapelAdmin,
			Ativo:     true,
		}
		if err := db.WithContext(ctx).Create(&novo).Error; err != nil {
			log.Fatalf("insert error: %v", err)
		}
	default:
		log.Fatalf("query error: %v", err)
	}

	fmt.Printf("usuário '%s' criado/atualizado\n", username)
}
