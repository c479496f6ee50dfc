// Package cartcache est le cache local durable du panier (équivalent du
// stockage embarqué de l'application mobile).
//
// Un seul enregistrement par utilisateur : le dernier instantané observé du
// magasin distant, sérialisé en tableau JSON. Pur cache d'écrasement, aucune
// fusion — le magasin distant gagne toujours dès qu'il répond.
package cartcache

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"shopez_back_end/internal/models"
)

type cartSnapshot struct {
	UserID    string `gorm:"primaryKey;column:user_id"`
	Payload   string `gorm:"column:payload"`
	UpdatedAt time.Time
}

func (cartSnapshot) TableName() string { return "cart_snapshots" }

type Store struct {
	db *gorm.DB
}

// Open ouvre (ou crée) le fichier SQLite du cache local.
func Open(path string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("ouverture du cache local impossible: %w", err)
	}
	if err := db.AutoMigrate(&cartSnapshot{}); err != nil {
		return nil, fmt.Errorf("migration du cache local impossible: %w", err)
	}
	return &Store{db: db}, nil
}

// Save écrase l'instantané stocké pour userID. Best-effort : l'appelant
// journalise l'erreur et continue.
func (s *Store) Save(userID string, cart models.Cart) error {
	payload, err := json.Marshal(cart.Items())
	if err != nil {
		return fmt.Errorf("sérialisation du panier impossible: %w", err)
	}
	snap := cartSnapshot{UserID: userID, Payload: string(payload), UpdatedAt: time.Now()}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&snap).Error; err != nil {
		return fmt.Errorf("écriture du cache local impossible: %w", err)
	}
	return nil
}

// Load retourne le dernier instantané sauvegardé pour userID.
// Absence, erreur de lecture ou JSON illisible → panier vide, jamais d'erreur.
func (s *Store) Load(userID string) models.Cart {
	cart := models.Cart{}

	var snap cartSnapshot
	if err := s.db.First(&snap, "user_id = ?", userID).Error; err != nil {
		return cart
	}

	var items []models.CartItem
	if err := json.Unmarshal([]byte(snap.Payload), &items); err != nil {
		log.Printf("⚠️ Cache local illisible pour %s: %v", userID, err)
		return cart
	}
	for _, item := range items {
		cart[item.ID] = item
	}
	return cart
}
