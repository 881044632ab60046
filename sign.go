package main

import (
	"errors"
	"fmt"

	"psetu-backend/esewa"

	"github.com/urfave/cli/v2"
)

var signCommand = &cli.Command{
	Name:  "sign",
	Usage: "Print the eSewa signature for a payment, for debugging gateway rejections",
	Flags: []cli.Flag{
		&cli.Float64Flag{
			Name:     "amount",
			Usage:    "Total amount in NPR",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "uuid",
			Usage:    "Transaction uuid",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "product-code",
			Usage:   "Merchant product code",
			EnvVars: []string{"MERCHANT_ID"},
			Value:   "EPAYTEST",
		},
		&cli.StringFlag{
			Name:    "secret",
			Usage:   "Merchant secret key",
			EnvVars: []string{"SECRET"},
		},
	},
	Action: func(c *cli.Context) error {
		secret := c.String("secret")
		if secret == "" {
			return errors.New("set --secret or SECRET")
		}

		amount := esewa.FormatAmount(c.Float64("amount"))
		signature := esewa.SignPayment(secret, amount, c.String("uuid"), c.String("product-code"))

		fmt.Fprintf(c.App.Writer, "signed_field_names=%s\n", esewa.PaymentSignedFields)
		fmt.Fprintf(c.App.Writer, "total_amount=%s\n", amount)
		fmt.Fprintf(c.App.Writer, "signature=%s\n", signature)
		return nil
	},
}
