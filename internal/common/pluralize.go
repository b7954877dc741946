// Package common: pluralize.go содержит склонение единиц игры для ответов в чат.
package common

import "fmt"

// PluralizeCoins возвращает "coin" или "coins" для числа n.
func PluralizeCoins(n int64) string {
	if n == 1 || n == -1 {
		return "coin"
	}
	return "coins"
}

// PluralizeCharges возвращает "charge" или "charges".
func PluralizeCharges(n int64) string {
	if n == 1 || n == -1 {
		return "charge"
	}
	return "charges"
}

// FormatSignedCoins создаёт строку вида "+100 coins" или "-50 coins".
// Знак «+» добавляется автоматически.
//
// Примеры:
//
//	FormatSignedCoins(100)  → "+100 coins"
//	FormatSignedCoins(-50)  → "-50 coins"
//	FormatSignedCoins(1)    → "+1 coin"
func FormatSignedCoins(amount int64) string {
	if amount >= 0 {
		return fmt.Sprintf("+%s %s", FormatNumber(amount), PluralizeCoins(amount))
	}
	return fmt.Sprintf("%s %s", FormatNumber(amount), PluralizeCoins(amount))
}
