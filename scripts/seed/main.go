// Package main implements a standalone seed script that populates the
// storefront catalog with realistic demo data through the admin API. It
// logs in with the bootstrap admin credentials and creates one product per
// entry in the catalog table below, skipping SKUs that already exist.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type product struct {
	SKU          string   `json:"sku"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Price        int64    `json:"price"`
	ComparePrice int64    `json:"compare_price"`
	Stock        int      `json:"stock"`
	Sizes        []string `json:"sizes"`
}

var catalog = []product{
	{"KUR-001", "Green Cotton Kurta", "Handloom cotton kurta with block print.", "kurtas", 799, 999, 40, []string{"S", "M", "L", "XL"}},
	{"KUR-002", "Indigo Straight Kurta", "Straight-cut kurta in natural indigo dye.", "kurtas", 899, 1199, 35, []string{"S", "M", "L", "XL", "XXL"}},
	{"SAR-001", "Banarasi Silk Saree", "Zari-woven Banarasi saree with blouse piece.", "sarees", 3499, 4999, 12, nil},
	{"SAR-002", "Chanderi Cotton Saree", "Lightweight Chanderi saree for daily wear.", "sarees", 1599, 1999, 20, nil},
	{"LEH-001", "Embroidered Lehenga Set", "Three-piece lehenga with mirror work.", "lehengas", 5999, 7999, 8, []string{"S", "M", "L"}},
	{"SHT-001", "Linen Casual Shirt", "Breathable linen shirt in sand.", "shirts", 1099, 1399, 50, []string{"M", "L", "XL"}},
	{"SHT-002", "Printed Rayon Shirt", "Relaxed-fit shirt with jaipuri print.", "shirts", 849, 0, 45, []string{"S", "M", "L", "XL"}},
	{"DUP-001", "Phulkari Dupatta", "Hand-embroidered phulkari dupatta.", "dupattas", 649, 899, 30, nil},
	{"PAL-001", "Flared Palazzo Pants", "High-waist palazzo in soft crepe.", "bottoms", 699, 0, 60, []string{"S", "M", "L", "XL"}},
	{"KID-001", "Kids Festive Kurta Set", "Kurta-pyjama set for ages 4-12.", "kids", 999, 1299, 25, []string{"4-6Y", "6-8Y", "8-10Y", "10-12Y"}},
}

type client struct {
	baseURL string
	http    *http.Client
}

func newClient(baseURL string) (*client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &client{baseURL: baseURL, http: &http.Client{Jar: jar}}, nil
}

func (c *client) post(path string, body any) (int, map[string]any, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("marshal body: %w", err)
	}
	resp, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(data))
	if err != nil {
		return 0, nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return resp.StatusCode, nil, fmt.Errorf("decode response %q: %w", string(raw), err)
		}
	}
	return resp.StatusCode, decoded, nil
}

func main() {
	baseURL := getEnv("STOREFRONT_URL", "http://localhost:8080")
	adminEmail := getEnv("ADMIN_EMAIL", "admin@darshanstylehub.in")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		log.Fatal("ADMIN_PASSWORD is required")
	}

	c, err := newClient(baseURL)
	if err != nil {
		log.Fatalf("init client: %v", err)
	}

	status, _, err := c.post("/api/v1/auth/login", map[string]string{
		"email":    adminEmail,
		"password": adminPassword,
	})
	if err != nil {
		log.Fatalf("admin login: %v", err)
	}
	if status != http.StatusOK {
		log.Fatalf("admin login returned %d", status)
	}
	log.Printf("logged in as %s", adminEmail)

	created, skipped := 0, 0
	for _, p := range catalog {
		status, body, err := c.post("/api/v1/admin/products", p)
		if err != nil {
			log.Fatalf("create product %s: %v", p.SKU, err)
		}
		switch status {
		case http.StatusCreated:
			created++
			log.Printf("created %s (%s)", p.SKU, p.Name)
		case http.StatusConflict:
			skipped++
			log.Printf("skipped %s: already exists", p.SKU)
		default:
			log.Fatalf("create product %s returned %d: %v", p.SKU, status, body)
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}
