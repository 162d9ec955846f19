package pdf

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
)

// QRSigner binds ticket claims into a compact HS256 token that gates can
// check offline.
type QRSigner struct {
	secret []byte
	now    func() time.Time
}

func NewQRSigner(secret string) *QRSigner {
	return &QRSigner{secret: []byte(secret), now: time.Now}
}

var _ ports.QRSigner = (*QRSigner)(nil)

type qrClaims struct {
	domain.QRClaims
	jwt.RegisteredClaims
}

func (s *QRSigner) Sign(claims domain.QRClaims) (string, error) {
	if len(s.secret) == 0 {
		return "", errors.New("qr signing secret is not configured")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, qrClaims{
		QRClaims: claims,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(s.now()),
		},
	})

	return token.SignedString(s.secret)
}

func (s *QRSigner) Verify(payload string) (*domain.QRClaims, error) {
	var claims qrClaims
	_, err := jwt.ParseWithClaims(payload, &claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, domain.ErrInvalidTicket.Wrap(err)
	}

	if claims.TicketNumber == "" {
		return nil, domain.ErrInvalidTicket.WithMsg("ticket number missing from payload")
	}

	return &claims.QRClaims, nil
}
