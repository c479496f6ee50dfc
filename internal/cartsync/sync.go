// Package cartsync fait converger le panier distant (autoritaire) et
// l'instantané affiché localement, et traduit les intentions de l'interface
// en écritures distantes.
//
// Aucune mise à jour optimiste : l'interface ne change qu'à l'arrivée d'un
// nouvel instantané via l'abonnement. Aucun retry — les actions sont
// interactives, l'utilisateur peut réessayer.
package cartsync

import (
	"context"
	"errors"
	"fmt"
	"log"

	"shopez_back_end/internal/cartcache"
	"shopez_back_end/internal/cartstore"
	"shopez_back_end/internal/models"
)

// ErrNotAuthenticated : opération panier sans utilisateur connecté.
var ErrNotAuthenticated = errors.New("utilisateur non authentifié")

type Synchronizer struct {
	store *cartstore.Store
	cache *cartcache.Store
}

func New(store *cartstore.Store, cache *cartcache.Store) *Synchronizer {
	return &Synchronizer{store: store, cache: cache}
}

// Subscribe ouvre un abonnement au panier de userID.
//
// L'instantané du cache local est livré en premier (s'il est non vide) pour un
// affichage immédiat, puis chaque instantané distant le remplace. Chaque
// instantané distant est recopié dans le cache local avant livraison. Le canal
// se ferme à l'annulation du contexte ou si l'abonnement distant s'arrête ;
// les erreurs ne transitent jamais par le flux d'instantanés.
func (s *Synchronizer) Subscribe(ctx context.Context, userID string) (<-chan models.Cart, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}

	remote, err := s.store.Subscribe(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("abonnement au panier impossible: %w", err)
	}

	cached := s.cache.Load(userID)

	snapshots := make(chan models.Cart, 1)
	go func() {
		defer close(snapshots)

		if len(cached) > 0 {
			select {
			case snapshots <- cached:
			case <-ctx.Done():
				return
			}
		}

		for cart := range remote {
			// Miroir dans le cache local avant livraison (best-effort)
			if err := s.cache.Save(userID, cart); err != nil {
				log.Printf("⚠️ Sauvegarde du cache local échouée pour %s: %v", userID, err)
			}
			select {
			case snapshots <- cart:
			case <-ctx.Done():
				return
			}
		}
	}()

	return snapshots, nil
}

// Snapshot retourne l'instantané courant du panier : le magasin distant s'il
// répond (le cache local est alors rafraîchi), sinon le dernier instantané du
// cache local — jamais d'erreur remontée pour une panne du distant en lecture.
func (s *Synchronizer) Snapshot(ctx context.Context, userID string) (models.Cart, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	cart, err := s.store.ReadCart(ctx, userID)
	if err != nil {
		log.Printf("⚠️ Magasin distant injoignable pour %s, repli sur le cache local: %v", userID, err)
		return s.cache.Load(userID), nil
	}
	if err := s.cache.Save(userID, cart); err != nil {
		log.Printf("⚠️ Sauvegarde du cache local échouée pour %s: %v", userID, err)
	}
	return cart, nil
}

// SetQuantity écrit la quantité d'une ligne. Une quantité < 1 équivaut à Remove :
// une ligne à quantité nulle ou négative ne doit jamais exister.
func (s *Synchronizer) SetQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if quantity < 1 {
		return s.Remove(ctx, userID, productID)
	}
	if err := s.store.WriteQuantity(ctx, userID, productID, quantity); err != nil {
		return fmt.Errorf("mise à jour de la quantité impossible: %w", err)
	}
	return nil
}

// Increase incrémente à partir de la quantité détenue par l'appelant (dernier
// instantané affiché, pas le magasin distant) : deux appuis rapides avant
// l'arrivée d'un instantané frais se font écraser — comportement assumé.
func (s *Synchronizer) Increase(ctx context.Context, userID, productID string, currentQuantity int) error {
	return s.SetQuantity(ctx, userID, productID, currentQuantity+1)
}

// Decrease décrémente ; à 1, la ligne est supprimée, jamais mise à 0.
func (s *Synchronizer) Decrease(ctx context.Context, userID, productID string, currentQuantity int) error {
	return s.SetQuantity(ctx, userID, productID, currentQuantity-1)
}

// Remove supprime la ligne du magasin distant. Idempotent.
func (s *Synchronizer) Remove(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return ErrNotAuthenticated
	}
	if err := s.store.Delete(ctx, userID, productID); err != nil {
		return fmt.Errorf("suppression de l'article impossible: %w", err)
	}
	return nil
}

// AddOrIncrement ajoute un produit au panier, ou incrémente sa quantité s'il y
// est déjà (en gardant les attributs existants).
//
// Séquence lecture-puis-écriture non atomique : deux ajouts simultanés du même
// produit peuvent lire « absent » tous les deux et finir à quantité 1 au lieu
// de 2. Propriété connue du schéma dernière-écriture-gagnante, préservée telle
// quelle.
func (s *Synchronizer) AddOrIncrement(ctx context.Context, userID string, product models.Product) error {
	if userID == "" {
		return ErrNotAuthenticated
	}

	item := product.LineItem()
	existing, found, err := s.store.ReadItem(ctx, userID, item.ID)
	if err != nil {
		return fmt.Errorf("lecture du panier impossible: %w", err)
	}

	if found {
		q := existing.Quantity
		if q < 1 {
			q = 1 // quantité absente dans d'anciennes données
		}
		existing.Quantity = q + 1
		item = existing
	} else {
		item.Quantity = 1
	}

	if err := s.store.WriteItem(ctx, userID, item.ID, item); err != nil {
		return fmt.Errorf("ajout au panier impossible: %w", err)
	}
	return nil
}
