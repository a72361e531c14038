package catalog

import (
	_ "embed"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
)

// defaultTable contains the store's fixed product table.
//
//go:embed catalog.json
var defaultTable []byte

// Load parses the embedded product table and returns the default catalog.
func Load() (*Catalog, error) {
	products, err := parseProducts(defaultTable)
	if err != nil {
		return nil, errors.Wrap(err, "parse embedded catalog")
	}
	return New(products), nil
}

func parseProducts(data []byte) ([]Product, error) {
	var products []Product

	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		var p Product
		if err := d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "sku":
				v, err := d.Str()
				p.SKU = v
				return err
			case "name":
				v, err := d.Str()
				p.Name = v
				return err
			case "price":
				n, err := d.Num()
				if err != nil {
					return err
				}
				price, err := decimal.NewFromString(string(n))
				if err != nil {
					return errors.Wrap(err, "parse price")
				}
				p.Price = price
				return nil
			default:
				return d.Skip()
			}
		}); err != nil {
			return err
		}
		if p.SKU == "" {
			return errors.New("product entry missing sku")
		}
		products = append(products, p)
		return nil
	}); err != nil {
		return nil, err
	}

	return products, nil
}
