// Package cartstore est l'adaptateur du magasin de panier distant (Redis).
//
// Chaque ligne de panier vit dans son propre hash Redis `cart:{userID}:{productID}`,
// ce qui permet d'écrire la quantité seule (HSET d'un champ) sans relire tout le
// panier. Aucune transaction inter-clés, aucun compare-and-swap : la dernière
// écriture gagne, champ par champ.
//
// Chaque mutation publie sur le canal Pub/Sub `cart:{userID}` pour la
// synchronisation temps réel entre sessions.
package cartstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"shopez_back_end/internal/models"
)

const (
	payloadUpdated = "updated"
	payloadCleared = "cleared"
)

type Store struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func itemKey(userID, productID string) string {
	return "cart:" + userID + ":" + productID
}

func channel(userID string) string {
	return "cart:" + userID
}

// ReadItem lit une ligne de panier. found vaut false si la ligne n'existe pas.
func (s *Store) ReadItem(ctx context.Context, userID, productID string) (models.CartItem, bool, error) {
	fields, err := s.rdb.HGetAll(ctx, itemKey(userID, productID)).Result()
	if err != nil {
		return models.CartItem{}, false, fmt.Errorf("lecture Redis échouée: %w", err)
	}
	if len(fields) == 0 {
		return models.CartItem{}, false, nil
	}
	return itemFromFields(productID, fields), true, nil
}

// WriteItem écrit la ligne complète puis notifie les abonnés.
func (s *Store) WriteItem(ctx context.Context, userID, productID string, item models.CartItem) error {
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, itemKey(userID, productID), map[string]interface{}{
		"title":       item.Title,
		"image":       item.Image,
		"price":       item.Price,
		"description": item.Description,
		"category":    item.Category,
		"quantity":    item.Quantity,
	})
	pipe.Publish(ctx, channel(userID), payloadUpdated) // ✅ Pub/Sub pour sync temps réel
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("écriture Redis échouée: %w", err)
	}
	return nil
}

// WriteQuantity écrit uniquement le champ quantity (écriture scalaire, pas de relecture).
func (s *Store) WriteQuantity(ctx context.Context, userID, productID string, quantity int) error {
	pipe := s.rdb.Pipeline()
	pipe.HSet(ctx, itemKey(userID, productID), "quantity", quantity)
	pipe.Publish(ctx, channel(userID), payloadUpdated)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("écriture Redis échouée: %w", err)
	}
	return nil
}

// Delete supprime la ligne. Idempotent : supprimer une ligne absente réussit.
func (s *Store) Delete(ctx context.Context, userID, productID string) error {
	pipe := s.rdb.Pipeline()
	pipe.Del(ctx, itemKey(userID, productID))
	pipe.Publish(ctx, channel(userID), payloadCleared)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("suppression Redis échouée: %w", err)
	}
	return nil
}

// ReadCart reconstruit l'instantané complet du panier d'un utilisateur.
func (s *Store) ReadCart(ctx context.Context, userID string) (models.Cart, error) {
	cart := models.Cart{}
	prefix := "cart:" + userID + ":"

	iter := s.rdb.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		productID := key[len(prefix):]
		fields, err := s.rdb.HGetAll(ctx, key).Result()
		if err != nil {
			return nil, fmt.Errorf("lecture Redis échouée: %w", err)
		}
		if len(fields) == 0 {
			// Supprimé entre le SCAN et le HGETALL
			continue
		}
		cart[productID] = itemFromFields(productID, fields)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("parcours Redis échoué: %w", err)
	}
	return cart, nil
}

// Subscribe ouvre un abonnement temps réel au panier de userID.
//
// Un instantané initial est livré dès l'ouverture, puis un nouvel instantané à
// chaque notification Pub/Sub. L'annulation du contexte ferme le canal et libère
// l'abonnement Redis. En cas d'erreur de lecture, le canal cesse simplement de
// livrer (le cache local sert alors de repli côté appelant).
func (s *Store) Subscribe(ctx context.Context, userID string) (<-chan models.Cart, error) {
	pubsub := s.rdb.Subscribe(ctx, channel(userID))

	// Confirme l'abonnement avant l'instantané initial pour ne rien manquer
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("abonnement Redis échoué: %w", err)
	}

	snapshots := make(chan models.Cart, 1)
	messages := pubsub.Channel()

	go func() {
		defer close(snapshots)
		defer pubsub.Close()

		cart, err := s.ReadCart(ctx, userID)
		if err != nil {
			return
		}
		select {
		case snapshots <- cart:
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				cart, err := s.ReadCart(ctx, userID)
				if err != nil {
					return
				}
				select {
				case snapshots <- cart:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return snapshots, nil
}

func itemFromFields(productID string, fields map[string]string) models.CartItem {
	price, _ := strconv.ParseFloat(fields["price"], 64)
	quantity, _ := strconv.Atoi(fields["quantity"])
	return models.CartItem{
		ID:          productID,
		Title:       fields["title"],
		Image:       fields["image"],
		Price:       price,
		Description: fields["description"],
		Category:    fields["category"],
		Quantity:    quantity,
	}
}
