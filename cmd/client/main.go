// Command client is a small interactive console for the pantry service,
// driving the HTTP API with a numbered menu.
package main

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const maxGetAttempts = 3

var httpClient = &http.Client{Timeout: 60 * time.Second}

func main() {
	_ = godotenv.Load()
	baseURL := os.Getenv("PANTRY_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	stdin := bufio.NewScanner(os.Stdin)
	for {
		switch prompt(stdin) {
		case 0:
			fmt.Println("** done **")
			return
		case 1:
			upload(stdin, baseURL)
		case 2:
			listInventory(baseURL)
		case 3:
			deleteItem(stdin, baseURL)
		case 4:
			mealplan(baseURL)
		case 5:
			notify(baseURL)
		case 6:
			consume(stdin, baseURL)
		case 7:
			listExpiring(baseURL)
		default:
			fmt.Println("** unknown command, try again **")
		}
	}
}

func prompt(stdin *bufio.Scanner) int {
	fmt.Println()
	fmt.Println(">> Enter a command:")
	fmt.Println("   0 => end")
	fmt.Println("   1 => upload a QR image to inventory")
	fmt.Println("   2 => see inventory")
	fmt.Println("   3 => delete from inventory")
	fmt.Println("   4 => get a meal plan")
	fmt.Println("   5 => email a 3-day expiration notification")
	fmt.Println("   6 => consume an item")
	fmt.Println("   7 => see items expiring soon")

	if !stdin.Scan() {
		return 0
	}
	cmd, err := strconv.Atoi(strings.TrimSpace(stdin.Text()))
	if err != nil {
		return -1
	}
	return cmd
}

// getWithRetry repeats a GET up to maxGetAttempts times; networks flake and
// a couple of retries usually rides it out.
func getWithRetry(url string) (*http.Response, error) {
	var lastErr error
	for attempt := 1; attempt <= maxGetAttempts; attempt++ {
		resp, err := httpClient.Get(url)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		time.Sleep(time.Duration(attempt) * time.Second)
	}
	return nil, lastErr
}

func upload(stdin *bufio.Scanner, baseURL string) {
	fmt.Println("Enter path to QR image:")
	if !stdin.Scan() {
		return
	}
	path := strings.TrimSpace(stdin.Text())

	image, err := os.ReadFile(path)
	if err != nil {
		fmt.Println("**ERROR: cannot read image:", err)
		return
	}

	payload, _ := json.Marshal(map[string]string{
		"image": base64.StdEncoding.EncodeToString(image),
	})
	resp, err := httpClient.Post(baseURL+"/upload", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Println("**ERROR: upload failed:", err)
		return
	}
	printResponse(resp)
}

func listInventory(baseURL string) {
	resp, err := getWithRetry(baseURL + "/inventory")
	if err != nil {
		fmt.Println("**ERROR: list failed:", err)
		return
	}
	defer resp.Body.Close()

	var body struct {
		Items []struct {
			Name       string `json:"name"`
			Quantity   int    `json:"quantity"`
			Expiration string `json:"expiration_date"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Println("**ERROR: bad response:", err)
		return
	}

	if len(body.Items) == 0 {
		fmt.Println("(inventory is empty)")
		return
	}
	for _, item := range body.Items {
		fmt.Printf("%s: %d units, expires on %s\n", item.Name, item.Quantity, item.Expiration)
	}
}

func deleteItem(stdin *bufio.Scanner, baseURL string) {
	fmt.Println("Enter item name to delete:")
	if !stdin.Scan() {
		return
	}
	name := strings.TrimSpace(stdin.Text())

	payload, _ := json.Marshal(map[string]string{"itemid": name})
	req, err := http.NewRequest(http.MethodDelete, baseURL+"/inventory", bytes.NewReader(payload))
	if err != nil {
		fmt.Println("**ERROR:", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		fmt.Println("**ERROR: delete failed:", err)
		return
	}
	printResponse(resp)
}

func mealplan(baseURL string) {
	resp, err := getWithRetry(baseURL + "/mealplan")
	if err != nil {
		fmt.Println("**ERROR: mealplan failed:", err)
		return
	}
	defer resp.Body.Close()

	var body struct {
		Mealplan string `json:"mealplan"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Println("**ERROR: bad response:", err)
		return
	}
	if body.Error != "" {
		fmt.Println("**ERROR:", body.Error)
		return
	}
	fmt.Println(body.Mealplan)
}

func listExpiring(baseURL string) {
	resp, err := getWithRetry(baseURL + "/expiring")
	if err != nil {
		fmt.Println("**ERROR: expiring failed:", err)
		return
	}
	defer resp.Body.Close()

	var body struct {
		HorizonDays int `json:"horizon_days"`
		Items       []struct {
			Name       string `json:"name"`
			Quantity   int    `json:"quantity"`
			Expiration string `json:"expiration_date"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		fmt.Println("**ERROR: bad response:", err)
		return
	}

	if len(body.Items) == 0 {
		fmt.Printf("(nothing expires within %d days)\n", body.HorizonDays)
		return
	}
	for _, item := range body.Items {
		fmt.Printf("%s: %d units, expires on %s\n", item.Name, item.Quantity, item.Expiration)
	}
}

func notify(baseURL string) {
	resp, err := getWithRetry(baseURL + "/notify")
	if err != nil {
		fmt.Println("**ERROR: notify failed:", err)
		return
	}
	printResponse(resp)
}

func consume(stdin *bufio.Scanner, baseURL string) {
	fmt.Println("Enter item name:")
	if !stdin.Scan() {
		return
	}
	name := strings.TrimSpace(stdin.Text())

	fmt.Println("Enter quantity consumed:")
	if !stdin.Scan() {
		return
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(stdin.Text()))
	if err != nil {
		fmt.Println("**ERROR: quantity must be an integer")
		return
	}

	payload, _ := json.Marshal(map[string]interface{}{"name": name, "quantity": quantity})
	resp, err := httpClient.Post(baseURL+"/consume", "application/json", bytes.NewReader(payload))
	if err != nil {
		fmt.Println("**ERROR: consume failed:", err)
		return
	}
	printResponse(resp)
}

func printResponse(resp *http.Response) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fmt.Println("**ERROR: read response:", err)
		return
	}
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("**ERROR: status %d: %s\n", resp.StatusCode, strings.TrimSpace(string(body)))
		return
	}
	fmt.Println(strings.TrimSpace(string(body)))
}
