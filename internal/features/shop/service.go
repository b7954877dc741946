// Package shop: прайс-лист и покупки. Удочка дорожает с каждым уровнем.
package shop

import (
	"context"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
	"fishnuke.gg/discord-bot/internal/ledger"
	"fishnuke.gg/discord-bot/internal/rewards"
)

// Purchase: итог покупки.
type Purchase struct {
	Item     string
	Amount   int64
	Cost     int64
	Quantity int64 // количество (для удочки: уровень) после покупки
	Balance  int64
}

// Listing: строка прайс-листа для конкретного игрока.
type Listing struct {
	config.ShopItem
	Price int64 // цена одной штуки (для удочки: следующего уровня)
	Owned int64
}

// Service: магазин.
type Service struct {
	store ledger.Store
	game  *config.Game
	now   func() time.Time
}

// NewService создаёт магазин.
func NewService(store ledger.Store, game *config.Game) *Service {
	return &Service{store: store, game: game, now: time.Now}
}

// Listings возвращает прайс-лист с ценами для игрока.
func (s *Service) Listings(ctx context.Context, accountID int64) ([]Listing, error) {
	var out []Listing
	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		if _, err := tx.Account(ctx, accountID); err != nil {
			return err
		}
		for _, it := range s.game.ShopItems() {
			owned, err := tx.Item(ctx, accountID, it.Name)
			if err != nil {
				return err
			}
			price := it.Price
			if it.Upgradeable {
				price = rewards.RodPrice(it.Price, s.game.RodPriceGrowth, owned, 1)
			}
			out = append(out, Listing{ShopItem: it, Price: price, Owned: owned})
		}
		return nil
	})
	return out, err
}

// Buy покупает amount штук предмета. Если монет не хватает: ничего не меняется.
func (s *Service) Buy(ctx context.Context, accountID int64, item string, amount int64) (*Purchase, error) {
	item = strings.ToLower(strings.TrimSpace(item))
	if amount <= 0 {
		return nil, common.ErrInvalidAmount
	}
	if _, ok := s.game.ShopItem(item); !ok {
		return nil, common.ErrUnknownItem
	}

	now := s.now()
	var res Purchase

	err := s.store.Atomic(ctx, func(tx ledger.Tx) error {
		acc, err := tx.Account(ctx, accountID)
		if err != nil {
			return err
		}
		owned, err := tx.Item(ctx, accountID, item)
		if err != nil {
			return err
		}
		cost, err := rewards.Cost(s.game, item, amount, owned)
		if err != nil {
			return err
		}
		if acc.Balance < cost {
			return common.NewInsufficient("coins", cost, acc.Balance)
		}

		acc.Balance -= cost
		if err := tx.SaveAccount(ctx, acc); err != nil {
			return err
		}
		qty, err := ledger.AddItem(ctx, tx, accountID, item, amount)
		if err != nil {
			return err
		}
		if err := tx.Record(ctx, ledger.Entry{
			AccountID:   accountID,
			Delta:       -cost,
			Kind:        ledger.KindShop,
			Description: fmt.Sprintf("Bought %d × %s", amount, item),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		res = Purchase{Item: item, Amount: amount, Cost: cost, Quantity: qty, Balance: acc.Balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id": accountID,
		"item":    item,
		"amount":  amount,
		"cost":    res.Cost,
	}).Info("Покупка")
	return &res, nil
}
