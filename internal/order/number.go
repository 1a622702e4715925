package order

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

// 0/O ve 1/I karışmasın diye daraltılmış alfabe
const numberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const numberSuffixLen = 6

// GenerateOrderNumber: "ORD-20251231-X7K2QF" biçiminde, okunabilir numara.
// Tekillik tenant içinde unique index ile garanti edilir; çakışmada
// çağıran taraf yeniden üretir (bkz. persistOrder).
func GenerateOrderNumber(now time.Time) string {
	suffix := make([]byte, numberSuffixLen)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(numberAlphabet))))
		if err != nil {
			// crypto/rand hatası pratikte görülmez; zaman bazlı yedek
			suffix[i] = numberAlphabet[int(now.UnixNano()>>uint(i*5))%len(numberAlphabet)]
			continue
		}
		suffix[i] = numberAlphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), string(suffix))
}
