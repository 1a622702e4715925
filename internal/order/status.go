package order

import (
	"errors"

	"siparis-backend/internal/models"
)

var (
	ErrIllegalTransition = errors.New("geçersiz durum geçişi")
	ErrTerminalState     = errors.New("sipariş kapanmış, durum değiştirilemez")
)

// Durum makinesi: pending -> confirmed -> preparing -> ready -> delivered,
// cancelled terminal olmayan her durumdan erişilebilir. Ara durum atlanamaz.
var nextStatus = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusPending:   models.OrderStatusConfirmed,
	models.OrderStatusConfirmed: models.OrderStatusPreparing,
	models.OrderStatusPreparing: models.OrderStatusReady,
	models.OrderStatusReady:     models.OrderStatusDelivered,
}

func IsTerminal(s models.OrderStatus) bool {
	return s == models.OrderStatusDelivered || s == models.OrderStatusCancelled
}

func isValidStatus(s models.OrderStatus) bool {
	switch s {
	case models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusPreparing,
		models.OrderStatusReady, models.OrderStatusDelivered, models.OrderStatusCancelled:
		return true
	}
	return false
}

// ValidateTransition: geçiş kurallarını uygular.
// Dönüşler: (noop=true, nil) aynı duruma tekrar basılmış, sessizce kabul;
// (false, nil) geçerli ileri geçiş; hata ise reddedilir.
// İki garsonun aynı anda "onayla"ya basması senaryosunda ikinci istek
// no-op olur, hata değil.
func ValidateTransition(from, to models.OrderStatus) (noop bool, err error) {
	if !isValidStatus(to) {
		return false, ErrIllegalTransition
	}
	if IsTerminal(from) {
		return false, ErrTerminalState
	}
	if from == to {
		return true, nil
	}
	if to == models.OrderStatusCancelled {
		return false, nil
	}
	if nextStatus[from] == to {
		return false, nil
	}
	return false, ErrIllegalTransition
}
