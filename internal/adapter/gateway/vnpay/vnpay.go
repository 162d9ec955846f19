package vnpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lithammer/shortuuid/v3"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/srgjo27/transit_ticket/internal/core/domain"
	"github.com/srgjo27/transit_ticket/internal/core/ports"
	"github.com/srgjo27/transit_ticket/internal/platform/logging"
)

const (
	Provider = "vnpay"

	version    = "2.1.0"
	dateLayout = "20060102150405"

	// VNPay amounts are in the smallest unit times 100.
	amountScale = 100

	codeSuccess = "00"
)

// VNPay timestamps are always Vietnam local time.
var ict = time.FixedZone("ICT", 7*60*60)

type Config struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	APIURL     string
	ReturnURL  string
	HTTPClient *http.Client
}

type Gateway struct {
	cfg    Config
	client *http.Client
	now    func() time.Time
}

func New(cfg Config) *Gateway {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Gateway{cfg: cfg, client: client, now: time.Now}
}

var _ ports.PaymentGateway = (*Gateway)(nil)

func (g *Gateway) Provider() string {
	return Provider
}

func (g *Gateway) CreatePaymentURL(ctx context.Context, req ports.PaymentURLRequest) (string, error) {
	if req.Currency != string(domain.CurrencyVND) {
		return "", domain.NewValidationError("currency", "vnpay only accepts VND")
	}
	if req.Amount <= 0 {
		return "", domain.NewValidationError("amount", "must be positive")
	}

	ip := req.ClientIP
	if ip == "" {
		ip = "127.0.0.1"
	}

	params := url.Values{}
	params.Set("vnp_Version", version)
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", g.cfg.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(req.Amount*amountScale, 10))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_TxnRef", req.TransactionID)
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_ReturnUrl", g.cfg.ReturnURL)
	params.Set("vnp_IpAddr", ip)
	params.Set("vnp_CreateDate", req.CreatedAt.In(ict).Format(dateLayout))
	params.Set("vnp_ExpireDate", req.ExpiresAt.In(ict).Format(dateLayout))
	if req.BankCode != "" {
		params.Set("vnp_BankCode", req.BankCode)
	}

	query := canonicalQuery(params)

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"transaction_id": req.TransactionID,
		"amount":         req.Amount,
	}).Debug("Built vnpay payment url")

	return g.cfg.PayURL + "?" + query + "&vnp_SecureHash=" + g.sign(query), nil
}

// VerifyCallback checks the secure hash of a return or IPN query and decodes
// the result. The amount is converted back to VND.
func (g *Gateway) VerifyCallback(params url.Values) (*domain.CallbackResult, error) {
	given := strings.ToLower(params.Get("vnp_SecureHash"))
	if given == "" {
		return nil, domain.ErrInvalidSignature.WithMsg("missing vnp_SecureHash")
	}

	expected := g.sign(canonicalQuery(params))
	if !hmac.Equal([]byte(given), []byte(expected)) {
		return nil, domain.ErrInvalidSignature
	}

	if params.Get("vnp_TmnCode") != g.cfg.TmnCode {
		return nil, domain.ErrInvalidSignature.WithMsg("unexpected merchant code")
	}

	raw, err := strconv.ParseInt(params.Get("vnp_Amount"), 10, 64)
	if err != nil || raw <= 0 || raw%amountScale != 0 {
		return nil, domain.ErrAmountMismatch.WithMsg("malformed vnp_Amount %q", params.Get("vnp_Amount"))
	}

	code := params.Get("vnp_ResponseCode")
	status := params.Get("vnp_TransactionStatus")

	return &domain.CallbackResult{
		TransactionID: params.Get("vnp_TxnRef"),
		GatewayRef:    params.Get("vnp_TransactionNo"),
		Amount:        raw / amountScale,
		Success:       code == codeSuccess && (status == "" || status == codeSuccess),
		ResponseCode:  code,
		BankCode:      params.Get("vnp_BankCode"),
	}, nil
}

type refundRequest struct {
	RequestID       string `json:"vnp_RequestId"`
	Version         string `json:"vnp_Version"`
	Command         string `json:"vnp_Command"`
	TmnCode         string `json:"vnp_TmnCode"`
	TransactionType string `json:"vnp_TransactionType"`
	TxnRef          string `json:"vnp_TxnRef"`
	Amount          string `json:"vnp_Amount"`
	TransactionNo   string `json:"vnp_TransactionNo"`
	TransactionDate string `json:"vnp_TransactionDate"`
	CreateBy        string `json:"vnp_CreateBy"`
	CreateDate      string `json:"vnp_CreateDate"`
	IPAddr          string `json:"vnp_IpAddr"`
	OrderInfo       string `json:"vnp_OrderInfo"`
	SecureHash      string `json:"vnp_SecureHash"`
}

type refundResponse struct {
	ResponseCode string `json:"vnp_ResponseCode"`
	Message      string `json:"vnp_Message"`
}

// Refund calls the merchant API. Transaction type 02 is a full refund and 03
// a partial one.
func (g *Gateway) Refund(ctx context.Context, req domain.RefundRequest) error {
	txType := "02"
	if req.Partial {
		txType = "03"
	}

	reason := req.Reason
	if reason == "" {
		reason = "Refund " + req.TransactionID
	}

	body := refundRequest{
		RequestID:       shortuuid.New(),
		Version:         version,
		Command:         "refund",
		TmnCode:         g.cfg.TmnCode,
		TransactionType: txType,
		TxnRef:          req.TransactionID,
		Amount:          strconv.FormatInt(req.Amount*amountScale, 10),
		TransactionNo:   req.GatewayRef,
		TransactionDate: req.PaidAt.In(ict).Format(dateLayout),
		CreateBy:        "transit-ticket",
		CreateDate:      g.now().In(ict).Format(dateLayout),
		IPAddr:          "127.0.0.1",
		OrderInfo:       reason,
	}
	body.SecureHash = g.sign(strings.Join([]string{
		body.RequestID, body.Version, body.Command, body.TmnCode, body.TransactionType, body.TxnRef,
		body.Amount, body.TransactionNo, body.TransactionDate, body.CreateBy, body.CreateDate,
		body.IPAddr, body.OrderInfo,
	}, "|"))

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("could not marshal refund request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("could not create refund request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("vnpay refund request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("could not read vnpay refund response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("vnpay refund returned HTTP %d", resp.StatusCode)
	}

	var out refundResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("could not decode vnpay refund response: %w", err)
	}

	if out.ResponseCode != codeSuccess {
		return fmt.Errorf("vnpay refund rejected with code %s: %s", out.ResponseCode, out.Message)
	}

	logging.FromContext(ctx).WithFields(logrus.Fields{
		"transaction_id": req.TransactionID,
		"amount":         req.Amount,
		"request_id":     body.RequestID,
	}).Info("VNPay refund accepted")

	return nil
}

func (g *Gateway) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(g.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// canonicalQuery is the string VNPay signs: non-empty vnp_ fields other than
// the hash itself, sorted by key and query escaped.
func canonicalQuery(params url.Values) string {
	keys := lo.Filter(lo.Keys(params), func(k string, _ int) bool {
		return strings.HasPrefix(k, "vnp_") &&
			k != "vnp_SecureHash" && k != "vnp_SecureHashType" &&
			params.Get(k) != ""
	})
	sort.Strings(keys)

	parts := lo.Map(keys, func(k string, _ int) string {
		return url.QueryEscape(k) + "=" + url.QueryEscape(params.Get(k))
	})
	return strings.Join(parts, "&")
}
