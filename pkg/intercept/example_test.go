package intercept_test

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fyrsmithlabs/logwrap/pkg/intercept"
)

func printEntry(_ context.Context, level intercept.Level, e intercept.Entry) {
	switch e.Phase {
	case intercept.PhaseCall:
		fmt.Printf("%s %s params=[%s]\n", level, e.Message(), strings.Join(e.Params, ", "))
	case intercept.PhaseReturn:
		fmt.Printf("%s %s result=%s\n", level, e.Message(), e.Result)
	default:
		fmt.Printf("%s %s error=%s depth=%d\n", level, e.Message(), e.Error, e.Depth)
	}
}

type Users struct {
	names map[int]string
}

func (u *Users) Get(ctx context.Context, id int) (string, error) {
	name, ok := u.names[id]
	if !ok {
		return "", errors.New("user not found")
	}
	return name, nil
}

func (u *Users) Greet(ctx context.Context, obj *intercept.Object, id int) (string, error) {
	name, err := obj.Call(ctx, "Get", id)
	if err != nil {
		return "", err
	}
	return "hello " + name.(string), nil
}

func ExampleWrapper_Wrap() {
	w, err := intercept.New(intercept.Config{
		Logger:  intercept.LoggerFunc(printEntry),
		AppName: "demo",
		Options: intercept.Options{
			ParamsLevel: intercept.Static(intercept.LevelDebug),
		},
	})
	if err != nil {
		panic(err)
	}

	users, err := intercept.Bind(&Users{names: map[int]string{1: "alice"}})
	if err != nil {
		panic(err)
	}
	if _, err := w.Wrap(users, &intercept.Options{Include: []string{"Get"}}); err != nil {
		panic(err)
	}

	name, _ := users.Call(context.Background(), "Get", 1)
	fmt.Println(name)
	// Output:
	// debug demo/Users.Get called params=[1]
	// info demo/Users.Get returned result=alice
	// alice
}

func ExampleLogErrors() {
	w, err := intercept.New(intercept.Config{
		Logger: intercept.LoggerFunc(printEntry),
		Options: intercept.Options{
			LogErrors: intercept.LogErrors{Deepest: intercept.Bool(true)},
		},
	})
	if err != nil {
		panic(err)
	}

	u := &Users{names: map[int]string{}}
	users, err := intercept.Bind(u)
	if err != nil {
		panic(err)
	}
	if _, err := w.Wrap(users, nil); err != nil {
		panic(err)
	}

	_, err = users.Call(context.Background(), "Greet", users, 7)
	fmt.Println("caller got:", err)
	// Output:
	// error Users.Get failed error=user not found depth=1
	// caller got: user not found
}

func ExampleRedact() {
	s := intercept.MustRedact(`secret123`)
	out, _ := s("password: secret123")
	fmt.Println(out)
	// Output: password: ***
}
