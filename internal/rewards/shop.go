package rewards

import (
	"fmt"
	"math"

	"fishnuke.gg/discord-bot/internal/common"
	"fishnuke.gg/discord-bot/internal/config"
)

// priceEpsilon гасит ошибку округления float: 300×1.2 должно дать 360, а не 359.
const priceEpsilon = 1e-9

// maxPrice: первая степень двойки за пределами int64.
const maxPrice = float64(1 << 63)

// RodPrice: цена k улучшений удочки с уровня level:
// Σ_{i=0}^{k-1} floor(base × growth^(level+i)).
// Сумма насыщается на math.MaxInt64, после этого цикл останавливается.
func RodPrice(base int64, growth float64, level, k int64) int64 {
	var total int64
	for i := int64(0); i < k; i++ {
		step := math.Floor(float64(base)*math.Pow(growth, float64(level+i)) + priceEpsilon)
		if step >= maxPrice {
			return math.MaxInt64
		}
		total = common.AddSat(total, int64(step))
		if total == math.MaxInt64 {
			return total
		}
	}
	return total
}

// Cost возвращает полную цену покупки amount штук item для игрока с удочкой уровня rodLevel.
// Количество больше SHOP_MAX_AMOUNT или цена за пределами int64 дают ErrAmountTooLarge.
func Cost(g *config.Game, item string, amount, rodLevel int64) (int64, error) {
	if amount <= 0 {
		return 0, common.ErrInvalidAmount
	}
	shopItem, ok := g.ShopItem(item)
	if !ok {
		return 0, common.ErrUnknownItem
	}
	if g.ShopMaxAmount > 0 && amount > g.ShopMaxAmount {
		return 0, fmt.Errorf("%w (max %d per purchase)", common.ErrAmountTooLarge, g.ShopMaxAmount)
	}

	var total int64
	if shopItem.Upgradeable {
		total = RodPrice(shopItem.Price, g.RodPriceGrowth, rodLevel, amount)
	} else {
		total = common.MulSat(shopItem.Price, amount)
	}
	if total == math.MaxInt64 {
		return 0, common.ErrAmountTooLarge
	}
	return total, nil
}
