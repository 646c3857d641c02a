package catalog

const registerSample = `
# To register, use the code below. Please note that for these code examples we are using filler values for username
# (freddo), password (the_frog), email (freddo@frog.org), org (freds world) and you should replace each if you are
# copying and pasting this code.

import requests
register_url = 'https://api.watttime.org/register'
params = {'username': 'freddo',
         'password': 'the_frog',
         'email': 'freddo@frog.org',
         'org': 'freds world'}
rsp = requests.post(register_url, json=params)
print(rsp.text)
`

const loginSample = `
# To login and obtain an access token, use this code:

import requests
from requests.auth import HTTPBasicAuth
login_url = 'https://api.watttime.org/login'
rsp = requests.get(login_url, auth=HTTPBasicAuth('freddo', 'the_frog'))
print(rsp.json())
`

const passwordSample = `
# To reset your password, use this code:

import requests
password_url = 'https://api.watttime.org/password/?username=freddo'
rsp = requests.get(password_url)
print(rsp.json())
`

const regionFromLocSample = `
# Make sure to replace the parameters username (e.g. 'freddo') and password (e.g. 'the_frog') with your registered
# credentials when using this code. You should not add in your token here. The code automatically generates a new token
# each time you run it.


import requests
from requests.auth import HTTPBasicAuth

login_url = 'https://api.watttime.org/login'
token = requests.get(login_url, auth=HTTPBasicAuth('freddo', 'the_frog')).json()['token']

region_url = 'https://api.watttime.org/v3/region-from-loc'
headers = {'Authorization': 'Bearer {}'.format(token)}
params = {'latitude': '42.372', 'longitude': '-72.519', 'signal_type': 'co2_moer'}
rsp=requests.get(region_url, headers=headers, params=params)
print(rsp.text)
`

func pythonSample(source string) CodeSample {
	return CodeSample{Lang: "Python", Source: source, Label: "Python"}
}
