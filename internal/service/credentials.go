package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ijadele/Blog/internal/domain"
)

// SessionClaims 是会话 token 中携带的声明。
type SessionClaims struct {
	UserID string `json:"id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// CredentialService 负责密码哈希与会话 token 的签发、校验。
// 签名密钥在启动时注入，之后只读。
type CredentialService struct {
	jwtSecret  []byte
	jwtExpiry  time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewCredentialService 创建 CredentialService 实例。
// jwtExpiry <= 0 时默认 24 小时；bcryptCost 非法时使用 bcrypt.DefaultCost。
func NewCredentialService(jwtSecret string, jwtExpiry time.Duration, bcryptCost int) (*CredentialService, error) {
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT secret key cannot be empty")
	}
	if jwtExpiry <= 0 {
		jwtExpiry = 24 * time.Hour
	}
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &CredentialService{
		jwtSecret:  []byte(jwtSecret),
		jwtExpiry:  jwtExpiry,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}, nil
}

// TokenExpiry 返回 token 的有效期，供会话 cookie 的 max-age 使用。
func (s *CredentialService) TokenExpiry() time.Duration {
	return s.jwtExpiry
}

// HashPassword 使用 bcrypt 对密码进行加盐哈希，同一明文每次结果不同。
func (s *CredentialService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to generate hash from password: %w", err)
	}
	return string(bytes), nil
}

// VerifyPassword 验证明文密码是否与存储的哈希匹配。
func (s *CredentialService) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken 为用户签发 HS256 会话 token。
func (s *CredentialService) IssueToken(userID string, role domain.Role) (string, error) {
	now := s.now()
	claims := SessionClaims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken 解析并校验 token。格式错误、签名无效、过期一律返回 ErrInvalidToken，
// 具体原因只记录在 debug 日志中。
func (s *CredentialService) VerifyToken(tokenString string) (domain.Identity, error) {
	claims := &SessionClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		var validationErr *jwt.ValidationError
		if errors.As(err, &validationErr) {
			logrus.WithField("reason_bits", validationErr.Errors).Debug("Session token rejected")
		}
		return domain.Identity{}, ErrInvalidToken
	}
	if !token.Valid || claims.UserID == "" || claims.ExpiresAt == nil {
		return domain.Identity{}, ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if !role.Valid() {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{UserID: claims.UserID, Role: role}, nil
}
