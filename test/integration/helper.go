package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// 教学说明:集成测试辅助工具
// 集成测试依赖运行中的服务(MySQL+API进程),默认跳过;
// 本地启动服务后执行 BOOKSHOP_INTEGRATION=1 go test ./test/integration/...

const (
	// BaseURL API基础URL
	BaseURL = "http://localhost:8080/api/v1"
	// Timeout HTTP请求超时时间
	Timeout = 10 * time.Second
)

// RequireIntegration 未开启集成测试开关时跳过当前测试
func RequireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("BOOKSHOP_INTEGRATION") == "" {
		t.Skip("跳过集成测试(设置BOOKSHOP_INTEGRATION=1启用)")
	}
}

// Response 统一响应结构
type Response struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
	Data    json.RawMessage        `json:"data"`
}

// BookData 图书响应数据
type BookData struct {
	ID        uint   `json:"id"`
	ISBN      string `json:"isbn"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Price     int64  `json:"price"`
	PriceYuan string `json:"price_yuan"`
	Quantity  int    `json:"quantity"`
	Available bool   `json:"available"`
}

// BookListData 图书列表响应数据
type BookListData struct {
	List       []BookData `json:"list"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalPages int        `json:"total_pages"`
}

// PurchaseData 订单响应数据
type PurchaseData struct {
	ID             uint               `json:"id"`
	OrderNo        string             `json:"order_no"`
	CustomerEmail  string             `json:"customer_email"`
	Items          []PurchaseItemData `json:"items"`
	Subtotal       int64              `json:"subtotal"`
	SubtotalYuan   string             `json:"subtotal_yuan"`
	DiscountAmount int64              `json:"discount_amount"`
	DiscountCode   string             `json:"discount_code"`
	TotalAmount    int64              `json:"total_amount"`
	TotalYuan      string             `json:"total_yuan"`
	TotalItems     int                `json:"total_items"`
	Status         string             `json:"status"`
}

// PurchaseItemData 订单明细响应数据
type PurchaseItemData struct {
	BookID    uint   `json:"book_id"`
	BookTitle string `json:"book_title"`
	BookISBN  string `json:"book_isbn"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// GenerateTestISBN 生成随机的13位测试ISBN(978前缀)
func GenerateTestISBN() string {
	return fmt.Sprintf("978%010d", rand.Int63n(10000000000))
}

// doJSON 发送HTTP请求并解析统一响应
func doJSON(t *testing.T, method, url string, data interface{}) *Response {
	t.Helper()

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		require.NoError(t, err, "JSON序列化失败")
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, url, body)
	require.NoError(t, err, "创建HTTP请求失败")
	if data != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: Timeout}
	resp, err := client.Do(req)
	require.NoError(t, err, "发送HTTP请求失败")
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "读取响应体失败")

	var result Response
	err = json.Unmarshal(raw, &result)
	require.NoError(t, err, "解析JSON响应失败: %s", string(raw))
	return &result
}

// PostJSON 发送POST请求
func PostJSON(t *testing.T, url string, data interface{}) *Response {
	return doJSON(t, http.MethodPost, url, data)
}

// GetJSON 发送GET请求
func GetJSON(t *testing.T, url string) *Response {
	return doJSON(t, http.MethodGet, url, nil)
}

// PutJSON 发送PUT请求
func PutJSON(t *testing.T, url string, data interface{}) *Response {
	return doJSON(t, http.MethodPut, url, data)
}

// DeleteJSON 发送DELETE请求
func DeleteJSON(t *testing.T, url string) *Response {
	return doJSON(t, http.MethodDelete, url, nil)
}

// CreateTestBook 创建一本测试图书并返回其数据
func CreateTestBook(t *testing.T, price int64, quantity int) *BookData {
	t.Helper()

	resp := PostJSON(t, BaseURL+"/books", map[string]interface{}{
		"isbn":     GenerateTestISBN(),
		"title":    "《集成测试用书》",
		"author":   "测试作者",
		"price":    price,
		"quantity": quantity,
	})
	require.Equal(t, 0, resp.Code, "创建测试图书失败: %s", resp.Message)

	var data BookData
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	return &data
}
