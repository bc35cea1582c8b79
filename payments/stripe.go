package payments

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// Client encapsula as chamadas ao Stripe usadas no checkout e no webhook.
type Client struct {
	api           *client.API
	webhookSecret string
}

func NewClient(secretKey, webhookSecret string) (*Client, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY não configurada")
	}
	api := &client.API{}
	api.Init(secretKey, nil)
	return &Client{api: api, webhookSecret: webhookSecret}, nil
}

// CreateCardPaymentIntent cria um payment intent para cartão de crédito.
func (c *Client) CreateCardPaymentIntent(amountCents int64) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(string(stripe.CurrencyBRL)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	return c.api.PaymentIntents.New(params)
}

// CreatePixPaymentIntent cria um payment intent restrito a PIX.
func (c *Client) CreatePixPaymentIntent(amountCents int64) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amountCents),
		Currency:           stripe.String(string(stripe.CurrencyBRL)),
		PaymentMethodTypes: stripe.StringSlice([]string{"pix"}),
	}
	params.AddMetadata("payment_method", "pix")
	return c.api.PaymentIntents.New(params)
}

// GetOrCreateCustomer busca o cliente pelo e-mail ou cria um novo.
func (c *Client) GetOrCreateCustomer(userID int64, email, name string) (*stripe.Customer, error) {
	listParams := &stripe.CustomerListParams{Email: stripe.String(email)}
	listParams.Limit = stripe.Int64(1)
	iter := c.api.Customers.List(listParams)
	for iter.Next() {
		return iter.Customer(), nil
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(email),
		Name:  stripe.String(name),
	}
	params.AddMetadata("user_id", fmt.Sprintf("%d", userID))
	return c.api.Customers.New(params)
}

// ConstructWebhookEvent valida a assinatura do webhook e decodifica o evento.
func (c *Client) ConstructWebhookEvent(payload []byte, signature string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, signature, c.webhookSecret)
}
